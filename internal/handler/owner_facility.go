package handler // handler package contains owner-facing facility handlers

import (
	"errors"   // errors provides Is comparisons for sentinel values
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/iliyamo/sport-court-booking/internal/booking"    // booking validates clock strings
	"github.com/iliyamo/sport-court-booking/internal/repository" // repository holds database models
	"github.com/labstack/echo/v4"                                // echo is the web framework used for handlers
)

// facilityBody is the JSON payload for creating and updating facilities.
type facilityBody struct {
	Name      string `json:"name"`
	Sport     string `json:"sport"`
	City      string `json:"city"`
	Address   string `json:"address"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// validate trims the payload and checks required fields plus the
// open/close clock strings.  It returns a user-facing message when the
// payload is unusable.
func (b *facilityBody) validate() string {
	b.Name = strings.TrimSpace(b.Name)
	b.Sport = strings.ToUpper(strings.TrimSpace(b.Sport))
	b.City = strings.TrimSpace(b.City)
	b.Address = strings.TrimSpace(b.Address)
	if b.Name == "" {
		return "name is required"
	}
	if b.Sport == "" {
		return "sport is required"
	}
	if b.City == "" {
		return "city is required"
	}
	open, err := booking.ClockToMinutes(b.OpenTime)
	if err != nil {
		return "open_time must be HH:MM"
	}
	closeM, err := booking.ClockToMinutes(b.CloseTime)
	if err != nil {
		return "close_time must be HH:MM"
	}
	if closeM <= open {
		return "close_time must be after open_time"
	}
	b.OpenTime = booking.NormalizeClock(b.OpenTime)
	b.CloseTime = booking.NormalizeClock(b.CloseTime)
	return ""
}

// CreateFacility handles POST /v1/facilities and creates a new venue for the authenticated owner
func (h *OwnerHandler) CreateFacility(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body facilityBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	f := &repository.Facility{
		OwnerID:   ownerID,
		Name:      body.Name,
		Sport:     body.Sport,
		City:      body.City,
		Address:   body.Address,
		OpenTime:  body.OpenTime,
		CloseTime: body.CloseTime,
	}
	if err := h.FacilityRepo.Create(c.Request().Context(), f); err != nil {
		if strings.Contains(err.Error(), "1062") { // duplicate name per owner
			return c.JSON(http.StatusConflict, echo.Map{"error": "facility name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create facility"})
	}
	return c.JSON(http.StatusCreated, f)
}

// ListFacilities handles GET /v1/facilities and returns the owner's venues
func (h *OwnerHandler) ListFacilities(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.FacilityRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list facilities"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetFacility handles GET /v1/facilities/:id for the owning user
func (h *OwnerHandler) GetFacility(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	f, err := h.FacilityRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, f)
}

// UpdateFacility handles PUT /v1/facilities/:id and replaces the editable fields
func (h *OwnerHandler) UpdateFacility(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	var body facilityBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	f := &repository.Facility{
		ID:        id,
		OwnerID:   ownerID,
		Name:      body.Name,
		Sport:     body.Sport,
		City:      body.City,
		Address:   body.Address,
		OpenTime:  body.OpenTime,
		CloseTime: body.CloseTime,
	}
	if err := h.FacilityRepo.Update(c.Request().Context(), f); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "facility name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.FacilityRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteFacility handles DELETE /v1/facilities/:id.  Facilities that
// still have courts cannot be deleted and respond with 409.
func (h *OwnerHandler) DeleteFacility(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	if err := h.FacilityRepo.Delete(c.Request().Context(), id, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrFacilityNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "facility still has courts"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
