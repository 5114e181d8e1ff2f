// Package model holds the vocabulary shared across layers: account
// roles, booking statuses and the account row type.  Entity rows that
// only one repository reads live next to their queries instead.
package model

// Booking status values.  A booking starts PENDING, is CONFIRMED by the
// facility owner, becomes COMPLETED after the slot has been played, or
// is CANCELLED by either side.  Only non-CANCELLED bookings occupy a
// court's time slot.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)
