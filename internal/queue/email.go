// Package queue implements the email dispatch queue: a typed façade
// over RabbitMQ that accepts template-oriented email requests, plus the
// background consumer that delivers them and the administrative
// operations (pause/resume/clean/retry/remove/metrics/health) backed by
// Redis job records.
package queue

import (
    "errors"
    "fmt"
    "strings"
    "time"
)

// Built-in template names.  Any other non-empty template name is
// treated as a custom template and rendered from its variables.
const (
    TemplateMagicLink     = "magic-link"
    TemplateOTP           = "otp"
    TemplatePasswordReset = "password-reset"
    TemplateVerification  = "verification"
    TemplateWelcome       = "welcome"
)

// ErrMissingField is wrapped by Validate when a required field or
// template variable is absent.  Handlers translate it into HTTP 400
// and nothing is enqueued.
var ErrMissingField = errors.New("missing required field")

// Attachment describes a file attached to an outbound email.  Content
// is base64 encoded; the worker passes it through to the mail body
// untouched.
type Attachment struct {
    Filename    string `json:"filename"`
    ContentType string `json:"content_type"`
    Content     string `json:"content"`
}

// EmailRequest is one email to enqueue.  Priority is optional (0 is
// lowest, 9 highest; values above 9 are clamped).  SendAt, when set to
// a future instant, delays delivery until that time.
type EmailRequest struct {
    To          string            `json:"to"`
    Template    string            `json:"template"`
    Variables   map[string]string `json:"variables,omitempty"`
    Subject     string            `json:"subject,omitempty"`
    Priority    *uint8            `json:"priority,omitempty"`
    SendAt      *time.Time        `json:"send_at,omitempty"`
    Attachments []Attachment      `json:"attachments,omitempty"`
}

// requiredVars lists the template variables each built-in template
// needs.  Custom templates only need a non-nil variables map.
var requiredVars = map[string][]string{
    TemplateMagicLink:     {"magic_link", "name"},
    TemplateOTP:           {"otp", "name"},
    TemplatePasswordReset: {"reset_link", "name"},
    TemplateVerification:  {"verification_link", "name"},
    TemplateWelcome:       {"name"},
}

// Validate checks that the recipient, template and the template's
// required variables are present and non-empty.  It does not verify
// deliverability of the address.
func (r *EmailRequest) Validate() error {
    if strings.TrimSpace(r.To) == "" {
        return fmt.Errorf("%w: to", ErrMissingField)
    }
    if strings.TrimSpace(r.Template) == "" {
        return fmt.Errorf("%w: template", ErrMissingField)
    }
    if req, ok := requiredVars[r.Template]; ok {
        for _, k := range req {
            if strings.TrimSpace(r.Variables[k]) == "" {
                return fmt.Errorf("%w: %s", ErrMissingField, k)
            }
        }
        return nil
    }
    if r.Variables == nil {
        return fmt.Errorf("%w: variables", ErrMissingField)
    }
    return nil
}

// MagicLinkEmail builds a request for the magic-link template.
func MagicLinkEmail(to, magicLink, name string) EmailRequest {
    return EmailRequest{
        To:       to,
        Template: TemplateMagicLink,
        Variables: map[string]string{
            "magic_link": magicLink,
            "name":       name,
        },
    }
}

// OTPEmail builds a request for the one-time-password template.
func OTPEmail(to, otp, name string) EmailRequest {
    return EmailRequest{
        To:       to,
        Template: TemplateOTP,
        Variables: map[string]string{
            "otp":  otp,
            "name": name,
        },
    }
}

// PasswordResetEmail builds a request for the password-reset template.
func PasswordResetEmail(to, resetLink, name string) EmailRequest {
    return EmailRequest{
        To:       to,
        Template: TemplatePasswordReset,
        Variables: map[string]string{
            "reset_link": resetLink,
            "name":       name,
        },
    }
}

// VerificationEmail builds a request for the address-verification template.
func VerificationEmail(to, verificationLink, name string) EmailRequest {
    return EmailRequest{
        To:       to,
        Template: TemplateVerification,
        Variables: map[string]string{
            "verification_link": verificationLink,
            "name":              name,
        },
    }
}

// WelcomeEmail builds a request for the welcome template.  loginLink is
// optional; the template omits the sign-in line when it is empty.
func WelcomeEmail(to, name, loginLink string) EmailRequest {
    vars := map[string]string{"name": name}
    if strings.TrimSpace(loginLink) != "" {
        vars["login_link"] = loginLink
    }
    return EmailRequest{To: to, Template: TemplateWelcome, Variables: vars}
}
