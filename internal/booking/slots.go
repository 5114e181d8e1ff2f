package booking

import (
    "errors"
    "fmt"
    "strconv"
    "strings"
)

// DefaultSlotMinutes is the grid step used when listing availability.
// Courts are rented by the hour.
const DefaultSlotMinutes = 60

var errBadClock = errors.New("invalid clock string")

// Interval is a half-open [Start, End) time range within one day,
// expressed as HH:MM clock strings.  Two intervals that merely touch
// (one ends exactly where the other starts) do not overlap.
type Interval struct {
    Start string `json:"start"`
    End   string `json:"end"`
}

// ClockToMinutes parses an HH:MM (or HH:MM:SS, as MySQL TIME columns
// scan) clock string into minutes since midnight.  Seconds are
// discarded.
func ClockToMinutes(s string) (int, error) {
    parts := strings.Split(strings.TrimSpace(s), ":")
    if len(parts) != 2 && len(parts) != 3 {
        return 0, errBadClock
    }
    h, err := strconv.Atoi(parts[0])
    if err != nil || h < 0 || h > 23 {
        return 0, errBadClock
    }
    m, err := strconv.Atoi(parts[1])
    if err != nil || m < 0 || m > 59 {
        return 0, errBadClock
    }
    return h*60 + m, nil
}

// MinutesToClock renders minutes since midnight as an HH:MM string.
func MinutesToClock(m int) string {
    return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// NormalizeClock trims a scanned TIME value down to HH:MM.  It returns
// the input unchanged when it does not parse.
func NormalizeClock(s string) string {
    m, err := ClockToMinutes(s)
    if err != nil {
        return s
    }
    return MinutesToClock(m)
}

// Overlaps reports whether two half-open clock intervals intersect.
// Malformed inputs are treated as overlapping so that a broken record
// never makes a slot look free.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
    as, err1 := ClockToMinutes(aStart)
    ae, err2 := ClockToMinutes(aEnd)
    bs, err3 := ClockToMinutes(bStart)
    be, err4 := ClockToMinutes(bEnd)
    if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
        return true
    }
    return as < be && bs < ae
}

// FreeSlots lays a fixed-step grid over the facility's opening hours
// and drops every slot that intersects a taken interval (existing
// non-cancelled bookings and owner-blocked windows).  A slot whose end
// would pass closing time is not offered.  The returned slots are in
// chronological order.
func FreeSlots(openTime, closeTime string, stepMinutes int, taken []Interval) ([]Interval, error) {
    open, err := ClockToMinutes(openTime)
    if err != nil {
        return nil, errBadClock
    }
    closeM, err := ClockToMinutes(closeTime)
    if err != nil {
        return nil, errBadClock
    }
    if stepMinutes <= 0 {
        stepMinutes = DefaultSlotMinutes
    }
    out := make([]Interval, 0)
    for start := open; start+stepMinutes <= closeM; start += stepMinutes {
        slot := Interval{Start: MinutesToClock(start), End: MinutesToClock(start + stepMinutes)}
        free := true
        for _, t := range taken {
            if Overlaps(slot.Start, slot.End, t.Start, t.End) {
                free = false
                break
            }
        }
        if free {
            out = append(out, slot)
        }
    }
    return out, nil
}

// DurationMinutes returns the length of a half-open clock interval, or
// an error when the interval is malformed or not strictly positive.
func DurationMinutes(start, end string) (int, error) {
    s, err := ClockToMinutes(start)
    if err != nil {
        return 0, errBadClock
    }
    e, err := ClockToMinutes(end)
    if err != nil {
        return 0, errBadClock
    }
    if e <= s {
        return 0, errors.New("end time must be after start time")
    }
    return e - s, nil
}

// PriceCents computes the cost of renting a court for the given clock
// interval at an hourly rate.  Partial hours are billed pro rata.
func PriceCents(pricePerHourCents uint32, start, end string) (uint32, error) {
    mins, err := DurationMinutes(start, end)
    if err != nil {
        return 0, err
    }
    return uint32(uint64(pricePerHourCents) * uint64(mins) / 60), nil
}
