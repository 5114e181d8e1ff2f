package handler

import (
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes

	"github.com/iliyamo/sport-court-booking/internal/booking"    // pricing, fees and clock arithmetic
	"github.com/iliyamo/sport-court-booking/internal/model"      // booking status constants
	"github.com/iliyamo/sport-court-booking/internal/repository" // repository layer
	"github.com/labstack/echo/v4"                                // Echo web framework
)

// CustomerHandler groups the repositories needed for customers to
// create, inspect and modify their own bookings.  All methods assume
// that JWT authentication and role validation has already been
// performed by middleware.  Methods may return 401 Unauthorized if the
// user ID cannot be extracted from the context.
type CustomerHandler struct {
	BookingRepo  *repository.BookingRepo  // access to bookings
	CourtRepo    *repository.CourtRepo    // access to courts for pricing and existence checks
	FacilityRepo *repository.FacilityRepo // access to facilities for opening hours
}

// NewCustomerHandler constructs a new CustomerHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewCustomerHandler(bookingRepo *repository.BookingRepo, courtRepo *repository.CourtRepo, facilityRepo *repository.FacilityRepo) *CustomerHandler {
	if bookingRepo == nil || courtRepo == nil || facilityRepo == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{
		BookingRepo:  bookingRepo,
		CourtRepo:    courtRepo,
		FacilityRepo: facilityRepo,
	}
}

// CreateBooking handles POST /v1/bookings.  It prices the requested
// interval from the court's hourly rate, verifies the slot is inside
// the facility's opening hours and creates a PENDING booking.  The
// overlap check against other bookings and blocked windows runs inside
// the insert transaction.  409 when the slot is taken.
func (h *CustomerHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		CourtID     uint64 `json:"court_id"`
		BookingDate string `json:"booking_date"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CourtID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "court_id is required"})
	}
	if !validDate(body.BookingDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date must be YYYY-MM-DD"})
	}
	if _, err := booking.DurationMinutes(body.StartTime, body.EndTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time/end_time must be HH:MM with end after start"})
	}
	start := booking.NormalizeClock(body.StartTime)
	end := booking.NormalizeClock(body.EndTime)

	ctx := c.Request().Context()
	court, err := h.CourtRepo.GetByID(ctx, body.CourtID)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !court.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "court is not open for booking"})
	}
	facility, err := h.FacilityRepo.GetByID(ctx, court.FacilityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	// The slot must sit inside opening hours; a booking ending exactly
	// at closing time is fine.
	if booking.Overlaps(start, end, "00:00", facility.OpenTime) || booking.Overlaps(start, end, facility.CloseTime, "23:59") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "requested time is outside facility opening hours"})
	}

	price, err := booking.PriceCents(court.PricePerHourCents, start, end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time range"})
	}
	rec := &repository.BookingRecord{
		UserID:           userID,
		CourtID:          court.ID,
		BookingDate:      body.BookingDate,
		StartTime:        start,
		EndTime:          end,
		Status:           model.BookingStatusPending,
		FinalAmountCents: price,
	}
	if err := h.BookingRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}
	return c.JSON(http.StatusCreated, rec)
}

// ListBookings handles GET /v1/my-bookings.  It returns all bookings
// created by the current user along with court and facility details.
// When no bookings exist, it returns an empty array.
func (h *CustomerHandler) ListBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  A booking that does not
// exist or belongs to another user responds with 404; ownership is
// enforced by the repository query.
func (h *CustomerHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	rec, err := h.BookingRepo.GetByIDForUser(c.Request().Context(), bookingID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": rec})
}

// CancelBooking handles DELETE /v1/bookings/:id.  Only PENDING and
// CONFIRMED bookings can be cancelled; a COMPLETED or already cancelled
// booking responds with 409.
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.BookingRepo.Cancel(c.Request().Context(), bookingID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking can no longer be cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// QuoteModificationFee handles POST /v1/bookings/:id/modification-fee.
// It quotes what moving the booking to a new date/time would cost
// without changing anything.  Same-date time changes are free; a date
// change carries a flat fee.
func (h *CustomerHandler) QuoteModificationFee(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		NewDate string `json:"new_date"`
		NewTime string `json:"new_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rec, err := h.BookingRepo.GetByIDForUser(c.Request().Context(), bookingID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	quote, err := booking.ComputeModificationFee(rec.BookingDate, rec.StartTime, rec.FinalAmountCents, body.NewDate, body.NewTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, quote)
}

// Reschedule handles PUT /v1/bookings/:id/schedule.  It applies a
// modification: the booking keeps its duration, moves to the new
// date/start, and the modification fee is added to the total.  The new
// slot is availability-checked in the same transaction; 409 when taken
// or when the booking can no longer be changed.
func (h *CustomerHandler) Reschedule(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		NewDate string `json:"new_date"`
		NewTime string `json:"new_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	rec, err := h.BookingRepo.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	quote, err := booking.ComputeModificationFee(rec.BookingDate, rec.StartTime, rec.FinalAmountCents, body.NewDate, body.NewTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// Keep the original duration; only date and start move.
	dur, err := booking.DurationMinutes(rec.StartTime, rec.EndTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stored booking has an invalid time range"})
	}
	newStart := booking.NormalizeClock(body.NewTime)
	startMin, _ := booking.ClockToMinutes(newStart)
	if startMin+dur > 24*60 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new time pushes the booking past midnight"})
	}
	newEnd := booking.MinutesToClock(startMin + dur)

	updated, err := h.BookingRepo.Reschedule(ctx, bookingID, userID, body.NewDate, newStart, newEnd, quote.NewTotalCents)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrSlotUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot unavailable"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking can no longer be changed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reschedule failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item":      updated,
		"fee_cents": quote.FeeCents,
	})
}

// Stats handles GET /v1/bookings/stats.  All five counters come from a
// single aggregate query so they are mutually consistent.
func (h *CustomerHandler) Stats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	stats, err := h.BookingRepo.StatsByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, stats)
}
