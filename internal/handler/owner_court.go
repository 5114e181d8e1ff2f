package handler // handler package contains owner-facing court handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iliyamo/sport-court-booking/internal/booking"
	"github.com/iliyamo/sport-court-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// courtBody is the JSON payload for creating and updating courts.
type courtBody struct {
	Name              string `json:"name"`
	Surface           string `json:"surface"`
	PricePerHourCents uint32 `json:"price_per_hour_cents"`
	IsActive          *bool  `json:"is_active"`
}

func (b *courtBody) validate() string {
	b.Name = strings.TrimSpace(b.Name)
	b.Surface = strings.ToUpper(strings.TrimSpace(b.Surface))
	if b.Name == "" {
		return "name is required"
	}
	if b.PricePerHourCents == 0 {
		return "price_per_hour_cents is required"
	}
	return ""
}

// CreateCourt handles POST /v1/facilities/:id/courts for the owning user
func (h *OwnerHandler) CreateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	facilityID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	var body courtBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}
	court := &repository.Court{
		FacilityID:        facilityID,
		Name:              body.Name,
		Surface:           body.Surface,
		PricePerHourCents: body.PricePerHourCents,
		IsActive:          active,
	}
	if err := h.CourtRepo.Create(c.Request().Context(), ownerID, court); err != nil {
		switch {
		case errors.Is(err, repository.ErrFacilityNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create court"})
		}
	}
	return c.JSON(http.StatusCreated, court)
}

// ListCourts handles GET /v1/facilities/:id/courts for the owning user.
// Inactive courts are included so owners can manage them.
func (h *OwnerHandler) ListCourts(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	facilityID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	if _, err := h.FacilityRepo.GetByIDAndOwner(c.Request().Context(), facilityID, ownerID); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.CourtRepo.ListByFacility(c.Request().Context(), facilityID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list courts"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateCourt handles PUT /v1/courts/:id for the owning user
func (h *OwnerHandler) UpdateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var body courtBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}
	court := &repository.Court{
		ID:                courtID,
		Name:              body.Name,
		Surface:           body.Surface,
		PricePerHourCents: body.PricePerHourCents,
		IsActive:          active,
	}
	if err := h.CourtRepo.Update(c.Request().Context(), ownerID, court); err != nil {
		switch {
		case errors.Is(err, repository.ErrCourtNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, court)
}

// DeleteCourt handles DELETE /v1/courts/:id.  Courts with non-cancelled
// bookings cannot be deleted and respond with 409.
func (h *OwnerHandler) DeleteCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	if err := h.CourtRepo.Delete(c.Request().Context(), ownerID, courtID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCourtNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "court has active bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// BlockSlot handles POST /v1/courts/:id/blocked-slots.  Owners take a
// time window off the market; availability treats it like a booking.
func (h *OwnerHandler) BlockSlot(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var body struct {
		BlockDate string `json:"block_date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Reason    string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !validDate(body.BlockDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "block_date must be YYYY-MM-DD"})
	}
	if _, err := booking.DurationMinutes(body.StartTime, body.EndTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time/end_time must be HH:MM with end after start"})
	}
	slot := &repository.BlockedSlot{
		CourtID:   courtID,
		BlockDate: body.BlockDate,
		StartTime: booking.NormalizeClock(body.StartTime),
		EndTime:   booking.NormalizeClock(body.EndTime),
		Reason:    strings.TrimSpace(body.Reason),
	}
	if err := h.BlockedSlotRepo.Create(c.Request().Context(), ownerID, slot); err != nil {
		switch {
		case errors.Is(err, repository.ErrCourtNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not block slot"})
		}
	}
	return c.JSON(http.StatusCreated, slot)
}

// ListBlockedSlots handles GET /v1/courts/:id/blocked-slots with an
// optional ?date=YYYY-MM-DD filter.
func (h *OwnerHandler) ListBlockedSlots(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	_, owner, err := h.CourtRepo.GetWithOwner(c.Request().Context(), courtID)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if owner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	date := c.QueryParam("date")
	if date != "" && !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	items, err := h.BlockedSlotRepo.ListByCourt(c.Request().Context(), courtID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list blocked slots"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UnblockSlot handles DELETE /v1/blocked-slots/:id for the owning user
func (h *OwnerHandler) UnblockSlot(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	slotID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blocked slot id"})
	}
	if err := h.BlockedSlotRepo.Delete(c.Request().Context(), ownerID, slotID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBlockedSlotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "blocked slot not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
