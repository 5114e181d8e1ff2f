package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/sport-court-booking/internal/queue"
	"github.com/labstack/echo/v4"
)

// EmailHandler exposes the email dispatch queue over HTTP: typed send
// endpoints, a custom/bulk send surface and the admin operations.
type EmailHandler struct {
	Queue *queue.EmailQueue
}

// NewEmailHandler constructs an EmailHandler.  The queue must be non-nil;
// when the broker is down the server does not register these routes.
func NewEmailHandler(q *queue.EmailQueue) *EmailHandler {
	if q == nil {
		panic("nil queue passed to NewEmailHandler")
	}
	return &EmailHandler{Queue: q}
}

// enqueueResponse translates the outcome of an enqueue into the
// boundary's envelope: 200 {success, jobId}, 400 on validation, 500 on
// dispatch failure.
func enqueueResponse(c echo.Context, jobID string, err error) error {
	if err != nil {
		if errors.Is(err, queue.ErrMissingField) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		log.Printf("email: enqueue failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "email dispatch failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "jobId": jobID})
}

// SendMagicLink handles POST /v1/email/magic-link
func (h *EmailHandler) SendMagicLink(c echo.Context) error {
	var body struct {
		To        string `json:"to"`
		MagicLink string `json:"magicLink"`
		Name      string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	jobID, err := h.Queue.SendMagicLink(c.Request().Context(), body.To, body.MagicLink, body.Name)
	return enqueueResponse(c, jobID, err)
}

// SendOTP handles POST /v1/email/otp
func (h *EmailHandler) SendOTP(c echo.Context) error {
	var body struct {
		To   string `json:"to"`
		OTP  string `json:"otp"`
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	jobID, err := h.Queue.SendOTP(c.Request().Context(), body.To, body.OTP, body.Name)
	return enqueueResponse(c, jobID, err)
}

// SendPasswordReset handles POST /v1/email/password-reset
func (h *EmailHandler) SendPasswordReset(c echo.Context) error {
	var body struct {
		To        string `json:"to"`
		ResetLink string `json:"resetLink"`
		Name      string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	jobID, err := h.Queue.SendPasswordReset(c.Request().Context(), body.To, body.ResetLink, body.Name)
	return enqueueResponse(c, jobID, err)
}

// SendVerification handles POST /v1/email/verify
func (h *EmailHandler) SendVerification(c echo.Context) error {
	var body struct {
		To               string `json:"to"`
		VerificationLink string `json:"verificationLink"`
		Name             string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	jobID, err := h.Queue.SendEmailVerification(c.Request().Context(), body.To, body.VerificationLink, body.Name)
	return enqueueResponse(c, jobID, err)
}

// SendWelcome handles POST /v1/email/welcome.  loginLink is optional.
func (h *EmailHandler) SendWelcome(c echo.Context) error {
	var body struct {
		To        string `json:"to"`
		Name      string `json:"name"`
		LoginLink string `json:"loginLink"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	jobID, err := h.Queue.SendWelcome(c.Request().Context(), body.To, body.Name, body.LoginLink)
	return enqueueResponse(c, jobID, err)
}

// emailBody is the wire shape of a custom email request.
type emailBody struct {
	To          string             `json:"to"`
	Template    string             `json:"template"`
	Variables   map[string]string  `json:"variables"`
	Subject     string             `json:"subject"`
	Priority    *uint8             `json:"priority"`
	SendAt      *time.Time         `json:"sendAt"`
	Attachments []queue.Attachment `json:"attachments"`
}

func (b emailBody) request() queue.EmailRequest {
	return queue.EmailRequest{
		To:          b.To,
		Template:    b.Template,
		Variables:   b.Variables,
		Subject:     b.Subject,
		Priority:    b.Priority,
		SendAt:      b.SendAt,
		Attachments: b.Attachments,
	}
}

// SendCustom handles POST /v1/email/send with a free-form template.
func (h *EmailHandler) SendCustom(c echo.Context) error {
	var body emailBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	jobID, err := h.Queue.Enqueue(c.Request().Context(), body.request())
	return enqueueResponse(c, jobID, err)
}

// SendBulk handles PUT /v1/email/send.  Each entry is validated
// independently; a transport failure aborts the remaining entries.
func (h *EmailHandler) SendBulk(c echo.Context) error {
	var body struct {
		Emails []emailBody `json:"emails"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Emails) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "emails is required"})
	}
	reqs := make([]queue.EmailRequest, 0, len(body.Emails))
	for _, b := range body.Emails {
		reqs = append(reqs, b.request())
	}
	results, err := h.Queue.EnqueueBulk(c.Request().Context(), reqs)
	if err != nil {
		log.Printf("email: bulk enqueue aborted: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "email dispatch failed"})
	}
	// Job IDs in input order; validation failures leave an empty slot
	// and are reported alongside.
	jobIDs := make([]string, len(results))
	failures := make([]echo.Map, 0)
	for _, r := range results {
		jobIDs[r.Index] = r.JobID
		if r.Error != "" {
			failures = append(failures, echo.Map{"index": r.Index, "error": r.Error})
		}
	}
	resp := echo.Map{
		"success": len(failures) == 0,
		"jobIds":  jobIDs,
		"count":   len(results) - len(failures),
	}
	if len(failures) > 0 {
		resp["failures"] = failures
	}
	return c.JSON(http.StatusOK, resp)
}

// GetQueueMetrics handles GET /v1/email/queue
func (h *EmailHandler) GetQueueMetrics(c echo.Context) error {
	m, err := h.Queue.Metrics(c.Request().Context())
	if err != nil {
		log.Printf("email: metrics unavailable: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "queue metrics unavailable"})
	}
	return c.JSON(http.StatusOK, m)
}

// QueueAction handles POST /v1/email/queue.  The action field selects
// one of pause, resume, clean, retry or remove.
func (h *EmailHandler) QueueAction(c echo.Context) error {
	var body struct {
		Action  string `json:"action"`
		JobID   string `json:"jobId"`
		GraceMs int64  `json:"graceMs"`
		Limit   int    `json:"limit"`
		State   string `json:"state"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	switch strings.ToLower(strings.TrimSpace(body.Action)) {
	case "pause":
		if err := h.Queue.Pause(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pause failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "paused": true})
	case "resume":
		if err := h.Queue.Resume(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resume failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "paused": false})
	case "clean":
		removed, err := h.Queue.Clean(ctx, time.Duration(body.GraceMs)*time.Millisecond, body.Limit, body.State)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clean failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "removed": removed})
	case "retry":
		if body.JobID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "jobId is required"})
		}
		if err := h.Queue.Retry(ctx, body.JobID); err != nil {
			if errors.Is(err, queue.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found or not retryable"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "retry failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "jobId": body.JobID})
	case "remove":
		if body.JobID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "jobId is required"})
		}
		if err := h.Queue.Remove(ctx, body.JobID); err != nil {
			if errors.Is(err, queue.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "jobId": body.JobID})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
	}
}

// EmailHealth handles GET /v1/email/health.  The HTTP status mirrors
// the aggregate health: 200 healthy, 206 degraded, 503 unhealthy.
func (h *EmailHandler) EmailHealth(c echo.Context) error {
	report := h.Queue.HealthCheck(c.Request().Context())
	return c.JSON(queue.HealthStatusCode(report.Status), report)
}
