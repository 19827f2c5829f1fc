package staff

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyID      = errors.New("staff user id cannot be empty")
	ErrInvalidEmail = errors.New("staff user email must be valid")
)

// User is the staff account record owned by the external POS backend.
// The client caches it alongside the session token for display only; every
// field is opaque beyond that.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Branch    string `json:"branch"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Validate checks if the User has valid data.
// PRE: User struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: ID must be non-empty, Email must contain '@'
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrEmptyID
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
