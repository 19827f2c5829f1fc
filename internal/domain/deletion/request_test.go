package deletion

import (
	"testing"
	"time"
)

// TestValidContact tests the email-or-phone contact rule.
func TestValidContact(t *testing.T) {
	cases := []struct {
		contact string
		ok      bool
	}{
		{"a@b.com", true},
		{"someone.else@posme.app", true},
		{"+66 81 234 5678", true},
		{"0812345678", true},
		{"(02) 123-4567", true},
		{"abc", false},
		{"a@b", false},
		{"1234567", false}, // phone too short
		{"", false},
	}
	for _, c := range cases {
		if got := ValidContact(c.contact); got != c.ok {
			t.Errorf("ValidContact(%q) = %v, want %v", c.contact, got, c.ok)
		}
	}
}

// TestValidateSubmission tests honeypot and required-field rejection.
func TestValidateSubmission(t *testing.T) {
	valid := Request{Contact: "a@b.com", Message: "please delete my account"}
	if err := valid.ValidateSubmission(); err != nil {
		t.Fatalf("unexpected error for valid submission: %v", err)
	}

	r := valid
	r.Honeypot = "spam"
	if err := r.ValidateSubmission(); err != ErrHoneypot {
		t.Errorf("expected ErrHoneypot, got %v", err)
	}

	r = valid
	r.Message = ""
	if err := r.ValidateSubmission(); err != ErrMissingFields {
		t.Errorf("expected ErrMissingFields for missing message, got %v", err)
	}

	r = valid
	r.Contact = "   "
	if err := r.ValidateSubmission(); err != ErrMissingFields {
		t.Errorf("expected ErrMissingFields for missing contact, got %v", err)
	}

	r = valid
	r.Contact = "abc"
	if err := r.ValidateSubmission(); err != ErrInvalidContact {
		t.Errorf("expected ErrInvalidContact, got %v", err)
	}
}

// TestValidate tests persistence readiness.
func TestValidate(t *testing.T) {
	r := Request{
		ID:         "req-001",
		Contact:    "a@b.com",
		Message:    "delete me",
		Status:     StatusPending,
		ReceivedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.ID = ""
	if err := r.Validate(); err != ErrEmptyRequestID {
		t.Errorf("expected ErrEmptyRequestID, got %v", err)
	}
}

// TestMarkProcessed tests the single status transition.
func TestMarkProcessed(t *testing.T) {
	r := Request{Status: StatusPending}
	if err := r.MarkProcessed(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusProcessed {
		t.Errorf("expected processed, got %s", r.Status)
	}
	if err := r.MarkProcessed(); err == nil {
		t.Error("expected error on double processing")
	}
}
