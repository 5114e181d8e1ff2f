package queue

import (
	"strings"
	"testing"
)

func TestRenderBuiltinTemplates(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		vars        map[string]string
		wantSubject string
		wantInBody  []string
	}{
		{
			"magic link", TemplateMagicLink,
			map[string]string{"magic_link": "https://x/ml", "name": "Ana"},
			"Your sign-in link", []string{"Ana", "https://x/ml"},
		},
		{
			"otp", TemplateOTP,
			map[string]string{"otp": "482913", "name": "Bo"},
			"Your one-time code", []string{"Bo", "482913"},
		},
		{
			"password reset", TemplatePasswordReset,
			map[string]string{"reset_link": "https://x/reset", "name": "Cy"},
			"Reset your password", []string{"Cy", "https://x/reset"},
		},
		{
			"verification", TemplateVerification,
			map[string]string{"verification_link": "https://x/verify", "name": "Di"},
			"Verify your email address", []string{"Di", "https://x/verify"},
		},
		{
			"welcome with login link", TemplateWelcome,
			map[string]string{"name": "Ed", "login_link": "https://x/login"},
			"Welcome to the courts", []string{"Ed", "https://x/login"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body, err := Render(tt.template, "", tt.vars)
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}
			for _, frag := range tt.wantInBody {
				if !strings.Contains(body, frag) {
					t.Errorf("body %q missing %q", body, frag)
				}
			}
		})
	}
}

func TestRenderWelcomeWithoutLoginLink(t *testing.T) {
	_, body, err := Render(TemplateWelcome, "", map[string]string{"name": "Ed"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(body, "Sign in here") {
		t.Errorf("body %q should omit the sign-in line when login_link is absent", body)
	}
}

func TestRenderSubjectOverride(t *testing.T) {
	subject, _, err := Render(TemplateOTP, "Custom subject", map[string]string{"otp": "1", "name": "A"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if subject != "Custom subject" {
		t.Errorf("subject = %q, want override", subject)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	t.Run("body variable wins", func(t *testing.T) {
		subject, body, err := Render("booking-receipt", "", map[string]string{"body": "Thanks for booking!"})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if subject != "Notification" {
			t.Errorf("subject = %q, want default", subject)
		}
		if body != "Thanks for booking!" {
			t.Errorf("body = %q", body)
		}
	})
	t.Run("variables are listed sorted", func(t *testing.T) {
		_, body, err := Render("booking-receipt", "", map[string]string{"total": "120.00", "court": "Court 2"})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		want := "court: Court 2\ntotal: 120.00\n"
		if body != want {
			t.Errorf("body = %q, want %q", body, want)
		}
	})
}
