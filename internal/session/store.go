package session

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"posme/internal/adapters/storage/authstate"
	"posme/internal/domain/staff"
)

// Cookie names. auth_token and auth_user mirror the bounded-lifetime copy of
// the session; posme_device is the stable key under which the persistent copy
// is stored.
const (
	TokenCookieName  = "auth_token"
	UserCookieName   = "auth_user"
	DeviceCookieName = "posme_device"
)

// Cookie lifetimes.
const (
	// AuthCookieMaxAge bounds the auth cookies to ~30 days.
	AuthCookieMaxAge = 30 * 24 * 60 * 60
	// deviceCookieMaxAge keeps the device key effectively permanent, the way
	// a browser's local storage would be.
	deviceCookieMaxAge = 10 * 365 * 24 * 60 * 60
)

// Store reconciles the two copies of a session: the persistent auth-state row
// (keyed by the device cookie) and the bounded-lifetime auth cookies. The
// divergence rules live here and nowhere else:
//
//   - both copies present but different: the cookie wins and the persistent
//     copy is corrected to match;
//   - cookie absent but persistent copy present: the session is stale and
//     both copies are purged (fail-closed);
//   - neither present: unauthenticated.
//
// Sessions on different devices are independent; clearing one never touches
// another device's row.
type Store struct {
	States authstate.Store

	// SecureCookies marks cookies Secure; enabled in production.
	SecureCookies bool

	// Now is swappable in tests.
	Now func() time.Time
}

// NewStore creates a session store over the given persistent backend.
func NewStore(states authstate.Store) *Store {
	return &Store{States: states, Now: time.Now}
}

// Read returns the reconciled session record for the request, performing a
// correcting write to the persistent store when the cookie held a different
// value, and purging both copies when only the persistent one remains.
// POST: Returns a zero Record when unauthenticated; error only when the
// persistent store could not be consulted
func (s *Store) Read(ctx context.Context, w http.ResponseWriter, r *http.Request) (Record, error) {
	device := s.deviceID(w, r)
	cookieToken := cookieValue(r, TokenCookieName)

	persistent, err := s.States.Get(ctx, device)
	havePersistent := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Record{}, err
	}

	if cookieToken == "" {
		if havePersistent {
			// Stale: the bounded copy is gone, so the session is over.
			slog.Info("auth_event", "event", "stale_session_purged", "device", device)
			if err := s.States.Delete(ctx, device); err != nil {
				return Record{}, err
			}
			expireAuthCookies(w, s.SecureCookies)
		} else if cookieValue(r, UserCookieName) != "" {
			expireAuthCookies(w, s.SecureCookies)
		}
		return Record{}, nil
	}

	user, haveUser := readUserCookie(r)
	if !haveUser && havePersistent {
		user = persistent.User
	}

	if !havePersistent || persistent.Token != cookieToken {
		// Cookie is authoritative; overwrite the persistent copy to match.
		if err := s.States.Put(ctx, authstate.State{
			DeviceID:  device,
			Token:     cookieToken,
			User:      user,
			UpdatedAt: s.Now(),
		}); err != nil {
			return Record{}, err
		}
		slog.Info("auth_event", "event", "session_reconciled", "device", device)
	}

	return Record{Token: cookieToken, User: user}, nil
}

// Write stores the token and user record in both copies.
// PRE: token is non-empty
// POST: Persistent row upserted, auth cookies set with the 30-day lifetime
func (s *Store) Write(ctx context.Context, w http.ResponseWriter, r *http.Request, token string, user staff.User) error {
	device := s.deviceID(w, r)
	if err := s.States.Put(ctx, authstate.State{
		DeviceID:  device,
		Token:     token,
		User:      user,
		UpdatedAt: s.Now(),
	}); err != nil {
		return err
	}
	setAuthCookie(w, TokenCookieName, token, s.SecureCookies)
	setAuthCookie(w, UserCookieName, encodeUser(user), s.SecureCookies)
	return nil
}

// Clear removes the token and user from both copies unconditionally. Used on
// logout and on any 401 from the backend.
// POST: No session remains for this device; cookie purge always happens even
// when the store delete fails
func (s *Store) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	device := s.deviceID(w, r)
	err := s.States.Delete(ctx, device)
	expireAuthCookies(w, s.SecureCookies)
	return err
}

// IsValid reports whether both copies of the session are present. It performs
// no reconciliation; pages use it to short-circuit before a full Read.
func (s *Store) IsValid(ctx context.Context, r *http.Request) bool {
	if cookieValue(r, TokenCookieName) == "" {
		return false
	}
	device, ok := requestDeviceID(r)
	if !ok {
		return false
	}
	_, err := s.States.Get(ctx, device)
	return err == nil
}

// Resolve turns a Read into the three-state session handed to handlers.
// Store failures resolve to StatusUnknown, never to a redirect.
func (s *Store) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) Session {
	rec, err := s.Read(ctx, w, r)
	if err != nil {
		slog.Error("session_resolve_failed", "error", err.Error())
		return Session{Status: StatusUnknown}
	}
	if !rec.IsAuthenticated() {
		return Session{Status: StatusUnauthenticated}
	}
	return Session{Status: StatusAuthenticated, Token: rec.Token, User: rec.User}
}

// deviceID returns the request's device key, minting and setting one when the
// browser has none yet.
func (s *Store) deviceID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := requestDeviceID(r); ok {
		return id
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     DeviceCookieName,
		Value:    id,
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   deviceCookieMaxAge,
	})
	// Make the minted ID visible to later reads within this request.
	r.AddCookie(&http.Cookie{Name: DeviceCookieName, Value: id})
	return id
}

func requestDeviceID(r *http.Request) (string, bool) {
	v := cookieValue(r, DeviceCookieName)
	return v, v != ""
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func setAuthCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   AuthCookieMaxAge,
	})
}

func expireAuthCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{TokenCookieName, UserCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
}

// encodeUser packs the user record into a cookie-safe value.
func encodeUser(user staff.User) string {
	b, err := json.Marshal(user)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// readUserCookie decodes the cached user record from the auth_user cookie.
func readUserCookie(r *http.Request) (staff.User, bool) {
	raw := cookieValue(r, UserCookieName)
	if raw == "" {
		return staff.User{}, false
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return staff.User{}, false
	}
	var u staff.User
	if err := json.Unmarshal(b, &u); err != nil {
		return staff.User{}, false
	}
	return u, true
}
