package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types
	"time"    // time validates calendar dates

	"github.com/iliyamo/sport-court-booking/internal/queue"      // queue publishes transactional emails
	"github.com/iliyamo/sport-court-booking/internal/repository" // repository holds data access layer
	"github.com/labstack/echo/v4"                                // echo defines request context types
)

// OwnerHandler bundles repositories for facility owners to manipulate
// their venues, courts, blocked windows and bookings.  Email may be nil
// when the broker is unavailable; status-change notifications are then
// skipped.
type OwnerHandler struct {
	FacilityRepo    *repository.FacilityRepo    // FacilityRepo provides facility persistence
	CourtRepo       *repository.CourtRepo       // CourtRepo provides court persistence
	BlockedSlotRepo *repository.BlockedSlotRepo // BlockedSlotRepo provides blocked window persistence
	BookingRepo     *repository.BookingRepo     // BookingRepo provides booking persistence
	Email           *queue.EmailQueue           // Email enqueues customer notifications (optional)
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any repository is nil
func NewOwnerHandler(facilityRepo *repository.FacilityRepo, courtRepo *repository.CourtRepo, blockedSlotRepo *repository.BlockedSlotRepo, bookingRepo *repository.BookingRepo, email *queue.EmailQueue) *OwnerHandler {
	if facilityRepo == nil || courtRepo == nil || blockedSlotRepo == nil || bookingRepo == nil { // check for nil dependencies
		panic("nil repository passed to NewOwnerHandler") // panic when a repository is missing
	}
	return &OwnerHandler{
		FacilityRepo:    facilityRepo,
		CourtRepo:       courtRepo,
		BlockedSlotRepo: blockedSlotRepo,
		BookingRepo:     bookingRepo,
		Email:           email,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) { // begin getUserID helper
	v := c.Get("user_id") // fetch user_id from context
	switch t := v.(type) { // perform type switch on the value
	case uint64: // when already uint64
		return t, nil // return directly
	case int: // when stored as int
		return uint64(t), nil // convert to uint64
	case int64: // when stored as int64
		return uint64(t), nil // convert to uint64
	case float64: // when stored as float64
		return uint64(t), nil // convert to uint64
	case string: // when stored as string
		if n, err := strconv.ParseUint(t, 10, 64); err == nil { // parse string to uint64
			return n, nil // return parsed number
		}
	} // end type switch
	return 0, errors.New("invalid user_id in context") // return error if value is missing or invalid
}

// pathID parses a positive uint64 path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// validDate reports whether s is a YYYY-MM-DD calendar date.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
