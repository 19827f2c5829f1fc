package session

import "posme/internal/domain/staff"

// Status is the three-state answer to "is this request authenticated".
// Unknown means the persistent store could not be consulted; router guards
// must not redirect on Unknown, only on Unauthenticated.
type Status int

// Session statuses.
const (
	StatusUnknown Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Record is the reconciled session state: the bearer token plus the cached
// staff user record kept for display.
type Record struct {
	Token string
	User  staff.User
}

// IsAuthenticated returns true when a token is present.
func (r Record) IsAuthenticated() bool {
	return r.Token != ""
}

// Session is what the middleware resolves once per request and hands to
// handlers through the context.
type Session struct {
	Status Status
	Token  string
	User   staff.User
}

// IsAuthenticated returns true when the session resolved to a token.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}
