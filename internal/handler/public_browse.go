// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse facilities, courts and availability without
// requiring authentication. Sensitive fields (owner IDs, timestamps, etc.) are
// filtered from responses.

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/sport-court-booking/internal/booking"
	"github.com/iliyamo/sport-court-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	FacilityRepo *repository.FacilityRepo // provides access to facility data
	CourtRepo    *repository.CourtRepo    // provides access to court data
	BookingRepo  *repository.BookingRepo  // provides taken intervals for availability
}

// PublicFacility represents a facility exposed via the public API. It
// contains only safe fields.
type PublicFacility struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Sport     string `json:"sport"`
	City      string `json:"city"`
	Address   string `json:"address"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// PublicCourt represents an active court exposed via the public API.
type PublicCourt struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	Surface           string `json:"surface"`
	PricePerHourCents uint32 `json:"price_per_hour_cents"`
}

func publicFacility(f *repository.Facility) PublicFacility {
	return PublicFacility{
		ID:        f.ID,
		Name:      f.Name,
		Sport:     f.Sport,
		City:      f.City,
		Address:   f.Address,
		OpenTime:  f.OpenTime,
		CloseTime: f.CloseTime,
	}
}

// GetPublicFacilities handles GET /v1/facilities and lists every venue.
func (h *PublicHandler) GetPublicFacilities(c echo.Context) error {
	items, err := h.FacilityRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list facilities"})
	}
	out := make([]PublicFacility, 0, len(items))
	for _, f := range items {
		out = append(out, publicFacility(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicFacility handles GET /v1/facilities/:id and returns the venue
// along with its active courts.
func (h *PublicHandler) GetPublicFacility(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	ctx := c.Request().Context()
	f, err := h.FacilityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	courts, err := h.CourtRepo.ListByFacility(ctx, id, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list courts"})
	}
	pc := make([]PublicCourt, 0, len(courts))
	for _, court := range courts {
		pc = append(pc, PublicCourt{
			ID:                court.ID,
			Name:              court.Name,
			Surface:           court.Surface,
			PricePerHourCents: court.PricePerHourCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"facility": publicFacility(f),
		"courts":   pc,
	})
}

// GetPublicCourts handles GET /v1/facilities/:id/courts and lists the
// venue's active courts.
func (h *PublicHandler) GetPublicCourts(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	ctx := c.Request().Context()
	if _, err := h.FacilityRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	courts, err := h.CourtRepo.ListByFacility(ctx, id, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list courts"})
	}
	out := make([]PublicCourt, 0, len(courts))
	for _, court := range courts {
		out = append(out, PublicCourt{
			ID:                court.ID,
			Name:              court.Name,
			Surface:           court.Surface,
			PricePerHourCents: court.PricePerHourCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetCourtAvailability handles GET /v1/courts/:id/availability?date=YYYY-MM-DD.
// It lays a one-hour grid over the facility's opening hours and removes
// every slot that intersects a non-cancelled booking or a blocked
// window.  The date defaults to today.
func (h *PublicHandler) GetCourtAvailability(c echo.Context) error {
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	court, err := h.CourtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !court.IsActive {
		return c.JSON(http.StatusOK, echo.Map{"court_id": courtID, "date": date, "slots": []booking.Interval{}})
	}
	facility, err := h.FacilityRepo.GetByID(ctx, court.FacilityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	taken, err := h.BookingRepo.TakenIntervals(ctx, courtID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load bookings"})
	}
	slots, err := booking.FreeSlots(facility.OpenTime, facility.CloseTime, booking.DefaultSlotMinutes, taken)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "facility has invalid opening hours"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"court_id": courtID,
		"date":     date,
		"slots":    slots,
	})
}

// SearchFacilities handles GET /v1/search/facilities with name, sport
// and city filters plus pagination.
func (h *PublicHandler) SearchFacilities(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	sport := strings.TrimSpace(c.QueryParam("sport"))
	city := strings.TrimSpace(c.QueryParam("city"))

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}

	q := repository.FacilitySearchQuery{
		Name:     name,
		Sport:    sport,
		City:     city,
		Page:     page,
		PageSize: ps,
	}
	items, total, err := h.FacilityRepo.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}
