// Package booking holds the pure scheduling and pricing rules of the
// platform: modification fees, clock arithmetic and availability slot
// computation.  Nothing in this package touches the database; callers
// fetch the records and apply the results.
package booking

import (
    "errors"
    "time"
)

// DateChangeFeeCents is the flat fee charged when a booking is moved to
// a different calendar date.  Time-only changes on the original date
// are free.  The fee does not scale with how far the date moves.
const DateChangeFeeCents uint32 = 5000 // 50.00 in currency units

// Input validation errors for fee quotes.  Handlers translate these
// into HTTP 400 responses.
var (
    ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
    ErrInvalidTime = errors.New("invalid time, expected HH:MM")
)

// FeeQuote is the result of a modification fee computation.  The
// original amount is echoed back so clients can render the delta, and
// NewTotalCents is what the booking would cost if the change is
// accepted.  Computing a quote never mutates the booking.
type FeeQuote struct {
    FeeCents            uint32 `json:"fee_cents"`
    OriginalAmountCents uint32 `json:"original_amount_cents"`
    NewTotalCents       uint32 `json:"new_total_cents"`
}

// ComputeModificationFee quotes the fee for moving a booking that
// currently sits at origDate/origStart (and cost finalAmountCents) to
// newDate/newTime.
//
// Policy:
//   - same date, different time  -> free
//   - different date             -> DateChangeFeeCents, regardless of distance
//   - same date, same time       -> free (no actual change)
//
// Dates in the past and times outside facility hours are accepted here;
// the availability check when the change is applied is what rejects an
// unusable slot.
func ComputeModificationFee(origDate, origStart string, finalAmountCents uint32, newDate, newTime string) (FeeQuote, error) {
    if _, err := time.Parse("2006-01-02", newDate); err != nil {
        return FeeQuote{}, ErrInvalidDate
    }
    if _, err := ClockToMinutes(newTime); err != nil {
        return FeeQuote{}, ErrInvalidTime
    }
    var fee uint32
    if newDate != origDate {
        fee = DateChangeFeeCents
    }
    return FeeQuote{
        FeeCents:            fee,
        OriginalAmountCents: finalAmountCents,
        NewTotalCents:       finalAmountCents + fee,
    }, nil
}
