package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"posme/internal/session"
)

type stubResolver struct {
	sess session.Session
}

func (s *stubResolver) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) session.Session {
	return s.sess
}

func resolvedRequest(t *testing.T, path string, sess session.Session) *http.Request {
	t.Helper()
	r := httptest.NewRequest("GET", path, nil)
	ctx := context.WithValue(r.Context(), sessionContextKey, sess)
	return r.WithContext(ctx)
}

func TestAuth_SkipsPublicPaths(t *testing.T) {
	resolver := &stubResolver{sess: session.Session{Status: session.StatusAuthenticated}}

	var sawSession bool
	h := Auth(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawSession = GetSessionFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/policy/pos-me", nil))
	if sawSession {
		t.Error("expected no session resolution on public path")
	}
}

func TestAuth_ResolvesBackofficePaths(t *testing.T) {
	resolver := &stubResolver{sess: session.Session{Status: session.StatusAuthenticated, Token: "tok"}}

	var got session.Session
	h := Auth(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSessionFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/backoffice/members", nil))
	if got.Token != "tok" {
		t.Errorf("expected resolved session in context, got %+v", got)
	}
}

func TestRequireStaff_RedirectsUnauthenticated(t *testing.T) {
	h := RequireStaff(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	})

	w := httptest.NewRecorder()
	h(w, resolvedRequest(t, "/backoffice", session.Session{Status: session.StatusUnauthenticated}))

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/backoffice/login" {
		t.Errorf("expected redirect to login, got %q", loc)
	}
}

func TestRequireStaff_UnknownRefusesWithoutRedirect(t *testing.T) {
	h := RequireStaff(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	})

	w := httptest.NewRecorder()
	h(w, resolvedRequest(t, "/backoffice", session.Session{Status: session.StatusUnknown}))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "" {
		t.Errorf("expected no redirect, got %q", loc)
	}
}

func TestRequireStaff_PassesAuthenticated(t *testing.T) {
	var ran bool
	h := RequireStaff(func(w http.ResponseWriter, r *http.Request) { ran = true })

	w := httptest.NewRecorder()
	h(w, resolvedRequest(t, "/backoffice", session.Session{Status: session.StatusAuthenticated}))

	if !ran {
		t.Error("expected handler to run")
	}
}
