package queue

import (
	"fmt"
	"testing"
)

// asStoredHash converts the fields written by jobFields into the
// all-string form HGetAll hands back.
func asStoredHash(t *testing.T, req EmailRequest, state string) map[string]string {
	t.Helper()
	fields, err := jobFields(req, state)
	if err != nil {
		t.Fatalf("jobFields: %v", err)
	}
	stored := make(map[string]string, len(fields))
	for k, v := range fields {
		stored[k] = fmt.Sprint(v)
	}
	return stored
}

func TestJobRecordRoundTrip(t *testing.T) {
	prio := uint8(7)
	req := EmailRequest{
		To:        "owner@example.com",
		Template:  "custom-invoice",
		Subject:   "Your September invoice",
		Variables: map[string]string{"body": "see attachment"},
		Priority:  &prio,
		Attachments: []Attachment{
			{Filename: "invoice.pdf", ContentType: "application/pdf", Content: "JVBERi0xLjQ="},
			{Filename: "terms.txt", ContentType: "text/plain", Content: "dGVybXM="},
		},
	}

	got, err := requestFromJob(asStoredHash(t, req, StateFailed))
	if err != nil {
		t.Fatalf("requestFromJob: %v", err)
	}

	if got.To != req.To || got.Template != req.Template || got.Subject != req.Subject {
		t.Errorf("envelope = %q/%q/%q, want %q/%q/%q",
			got.To, got.Template, got.Subject, req.To, req.Template, req.Subject)
	}
	if got.Variables["body"] != "see attachment" {
		t.Errorf("variables = %v, want body preserved", got.Variables)
	}
	if got.Priority == nil || *got.Priority != prio {
		t.Errorf("priority = %v, want %d", got.Priority, prio)
	}
	if len(got.Attachments) != 2 {
		t.Fatalf("attachments = %d entries, want 2", len(got.Attachments))
	}
	for i, a := range req.Attachments {
		if got.Attachments[i] != a {
			t.Errorf("attachment[%d] = %+v, want %+v", i, got.Attachments[i], a)
		}
	}
}

func TestJobRecordWithoutOptionals(t *testing.T) {
	req := EmailRequest{
		To:        "player@example.com",
		Template:  TemplateWelcome,
		Variables: map[string]string{"name": "Player"},
	}

	stored := asStoredHash(t, req, StateWaiting)
	if _, ok := stored["attachments"]; ok {
		t.Errorf("attachments field written for a request without attachments")
	}
	if _, ok := stored["priority"]; ok {
		t.Errorf("priority field written for a request without priority")
	}

	got, err := requestFromJob(stored)
	if err != nil {
		t.Fatalf("requestFromJob: %v", err)
	}
	if got.Attachments != nil {
		t.Errorf("attachments = %v, want none", got.Attachments)
	}
	if got.Priority != nil {
		t.Errorf("priority = %v, want nil", got.Priority)
	}
}
