package deletion

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Status constants for the deletion-request lifecycle. Requests arrive
// pending and are marked processed once the support team has handled them.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
)

// Max length constants for user-editable fields.
const (
	MaxContactLength   = 200
	MaxStoreNameLength = 200
	MaxMessageLength   = 4000
)

// Domain errors.
var (
	ErrHoneypot       = errors.New("invalid request")
	ErrMissingFields  = errors.New("contact and message are required")
	ErrInvalidContact = errors.New("please provide a valid email or phone number")
	ErrEmptyRequestID = errors.New("request id is required")
)

// contact must be an email address or a loose phone number
// (digits/+/-/space/parentheses, at least 8 characters).
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{8,}$`)
)

// Request is an account-deletion request submitted through the public form.
type Request struct {
	ID         string
	Contact    string // email or phone number of the requester
	StoreName  string // optional
	Message    string
	Honeypot   string // hidden field; non-empty signals a bot
	Status     string
	IPAddress  string // audit trail
	ReceivedAt time.Time
}

// ValidContact reports whether contact matches the email or phone pattern.
func ValidContact(contact string) bool {
	return emailPattern.MatchString(contact) || phonePattern.MatchString(contact)
}

// ValidateSubmission checks the raw form input before a request is created.
// PRE: fields may be empty
// POST: Returns ErrHoneypot, ErrMissingFields, or ErrInvalidContact; nil when
// the submission is acceptable
// INVARIANT: Honeypot must be empty, Contact and Message non-empty, Contact
// matches email or phone pattern
func (r *Request) ValidateSubmission() error {
	if r.Honeypot != "" {
		return ErrHoneypot
	}
	if strings.TrimSpace(r.Contact) == "" || strings.TrimSpace(r.Message) == "" {
		return ErrMissingFields
	}
	if len(r.Contact) > MaxContactLength || len(r.StoreName) > MaxStoreNameLength || len(r.Message) > MaxMessageLength {
		return ErrInvalidContact
	}
	if !ValidContact(r.Contact) {
		return ErrInvalidContact
	}
	return nil
}

// Validate checks that a request is ready to persist.
// PRE: ValidateSubmission has passed
// POST: Returns nil if valid, error otherwise
func (r *Request) Validate() error {
	if r.ID == "" {
		return ErrEmptyRequestID
	}
	if err := r.ValidateSubmission(); err != nil {
		return err
	}
	if r.ReceivedAt.IsZero() {
		return errors.New("received_at must be set")
	}
	return nil
}

// MarkProcessed records that the support team has handled the request.
// PRE: Status is pending
// POST: Status set to processed
func (r *Request) MarkProcessed() error {
	if r.Status != StatusPending {
		return errors.New("request is not pending")
	}
	r.Status = StatusProcessed
	return nil
}
