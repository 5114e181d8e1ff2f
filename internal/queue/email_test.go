package queue

import (
	"errors"
	"testing"
	"time"
)

func TestEmailRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     EmailRequest
		wantErr bool
	}{
		{"magic link complete", MagicLinkEmail("a@b.com", "https://x", "A"), false},
		{"magic link missing link", EmailRequest{To: "a@b.com", Template: TemplateMagicLink, Variables: map[string]string{"name": "A"}}, true},
		{"magic link missing everything but to", EmailRequest{To: "a@b.com", Template: TemplateMagicLink}, true},
		{"otp complete", OTPEmail("a@b.com", "123456", "A"), false},
		{"otp blank code", EmailRequest{To: "a@b.com", Template: TemplateOTP, Variables: map[string]string{"otp": "  ", "name": "A"}}, true},
		{"password reset complete", PasswordResetEmail("a@b.com", "https://x/reset", "A"), false},
		{"verification complete", VerificationEmail("a@b.com", "https://x/verify", "A"), false},
		{"verification missing name", EmailRequest{To: "a@b.com", Template: TemplateVerification, Variables: map[string]string{"verification_link": "https://x"}}, true},
		{"welcome without login link", WelcomeEmail("a@b.com", "A", ""), false},
		{"welcome with login link", WelcomeEmail("a@b.com", "A", "https://x/login"), false},
		{"welcome missing name", EmailRequest{To: "a@b.com", Template: TemplateWelcome, Variables: map[string]string{}}, true},
		{"missing recipient", EmailRequest{Template: TemplateOTP, Variables: map[string]string{"otp": "1", "name": "A"}}, true},
		{"missing template", EmailRequest{To: "a@b.com"}, true},
		{"custom with variables", EmailRequest{To: "a@b.com", Template: "booking-receipt", Variables: map[string]string{"total": "120.00"}}, false},
		{"custom without variables", EmailRequest{To: "a@b.com", Template: "booking-receipt"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMissingField) {
				t.Errorf("error %v should wrap ErrMissingField", err)
			}
		})
	}
}

func TestWelcomeEmailOptionalLoginLink(t *testing.T) {
	req := WelcomeEmail("a@b.com", "A", "")
	if _, ok := req.Variables["login_link"]; ok {
		t.Error("empty login link should not be set as a variable")
	}
	req = WelcomeEmail("a@b.com", "A", "https://x/login")
	if req.Variables["login_link"] != "https://x/login" {
		t.Errorf("login_link = %q, want the provided link", req.Variables["login_link"])
	}
}

func TestNewJobID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := newJobID()
		if err != nil {
			t.Fatalf("newJobID error: %v", err)
		}
		if len(id) != 32 {
			t.Fatalf("job id %q has length %d, want 32", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate job id %q", id)
		}
		seen[id] = true
	}
}

func TestEmailRequestSendAtRoundTrip(t *testing.T) {
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	req := EmailRequest{To: "a@b.com", Template: "digest", Variables: map[string]string{}, SendAt: &at}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
