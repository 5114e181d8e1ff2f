package booking

// Stats summarizes one user's bookings for dashboard display.
// Upcoming counts CONFIRMED bookings dated today or later; the
// comparison is date-only, so a booking earlier today still counts.
// TotalSpentCents sums COMPLETED bookings only; money on pending,
// confirmed or cancelled bookings is never included.
type Stats struct {
    TotalBookings     int64  `json:"total_bookings"`
    UpcomingBookings  int64  `json:"upcoming_bookings"`
    CompletedBookings int64  `json:"completed_bookings"`
    CancelledBookings int64  `json:"cancelled_bookings"`
    TotalSpentCents   uint64 `json:"total_spent_cents"`
}
