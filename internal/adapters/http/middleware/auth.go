package middleware

import (
	"context"
	"net/http"
	"strings"

	"posme/internal/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// backofficePrefix is the path prefix guarded by staff authentication.
const backofficePrefix = "/backoffice"

// Resolver reconciles the stored auth state for a request. Implemented by
// session.Store; narrowed here so tests can stub it.
type Resolver interface {
	Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) session.Session
}

// Auth returns middleware that resolves the auth session for backoffice
// requests and stores it in the request context. Marketing pages and the
// public deletion endpoint skip resolution entirely.
func Auth(sessions Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, backofficePrefix) {
				next.ServeHTTP(w, r)
				return
			}
			sess := sessions.Resolve(r.Context(), w, r)
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext extracts the resolved session from the request context.
func GetSessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(session.Session)
	return sess, ok
}

// RequireStaff wraps a backoffice handler and enforces authentication.
// An unauthenticated request is redirected to the login page. If the session
// status could not be determined (storage failure), the request is refused
// rather than redirected, so a transient fault never looks like a logout.
func RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSessionFromContext(r.Context())
		if !ok || sess.Status == session.StatusUnknown {
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		if sess.Status != session.StatusAuthenticated {
			http.Redirect(w, r, "/backoffice/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
