package handler // handler package contains owner-facing booking handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/iliyamo/sport-court-booking/internal/model"
	"github.com/iliyamo/sport-court-booking/internal/queue"
	"github.com/iliyamo/sport-court-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// ListCourtBookings handles GET /v1/courts/:id/bookings.  Owners see
// every booking on their court including the customer's email.
func (h *OwnerHandler) ListCourtBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	items, err := h.BookingRepo.ListByCourtForOwner(c.Request().Context(), courtID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCourtNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list bookings"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// allowedTransitions maps a booking's current status to the statuses an
// owner may move it to.  Customers cancel through their own endpoint.
var allowedTransitions = map[string][]string{
	model.BookingStatusPending:   {model.BookingStatusConfirmed, model.BookingStatusCancelled},
	model.BookingStatusConfirmed: {model.BookingStatusCompleted, model.BookingStatusCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateBookingStatus handles PATCH /v1/bookings/:id/status.  The owner
// of the court's facility confirms, completes or cancels a booking.
// A confirmation email is enqueued best-effort; dispatch failure never
// fails the status change.
func (h *OwnerHandler) UpdateBookingStatus(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	newStatus := strings.ToUpper(strings.TrimSpace(body.Status))
	if newStatus != model.BookingStatusConfirmed && newStatus != model.BookingStatusCompleted && newStatus != model.BookingStatusCancelled {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED, COMPLETED or CANCELLED"})
	}

	ctx := c.Request().Context()
	current, err := h.BookingRepo.StatusForOwner(ctx, bookingID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	if !transitionAllowed(current, newStatus) {
		return c.JSON(http.StatusConflict, echo.Map{"error": fmt.Sprintf("cannot move booking from %s to %s", current, newStatus)})
	}
	if err := h.BookingRepo.UpdateStatusForOwner(ctx, bookingID, ownerID, newStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if h.Email != nil && newStatus == model.BookingStatusConfirmed {
		if to, err := h.BookingRepo.CustomerEmail(ctx, bookingID); err == nil {
			req := queue.EmailRequest{
				To:       to,
				Template: "booking-confirmed",
				Subject:  "Your court booking is confirmed",
				Variables: map[string]string{
					"body": fmt.Sprintf("Booking #%d has been confirmed by the facility.", bookingID),
				},
			}
			if _, err := h.Email.Enqueue(ctx, req); err != nil {
				log.Printf("owner-booking: confirmation email for booking %d not enqueued: %v", bookingID, err)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"id": bookingID, "status": newStatus})
}
