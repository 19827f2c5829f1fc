package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"posme/internal/adapters/email"
	"posme/internal/adapters/http/middleware"
	"posme/internal/adapters/posapi"
	deletionStore "posme/internal/adapters/storage/deletion"
	"posme/internal/domain/member"
	"posme/internal/session"
)

// BackendAPI is the slice of the POS backend this app calls. Satisfied by
// *posapi.Client; narrowed so handler tests can stub the backend.
type BackendAPI interface {
	Login(ctx context.Context, email, password string) (posapi.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	GetMembers(ctx context.Context, token, search string, page, limit int) (posapi.MembersPage, error)
	CreateMember(ctx context.Context, token string, in member.NewMemberInput) (member.Member, error)
	CreateTransaction(ctx context.Context, token string, req posapi.TransactionRequest) (posapi.TransactionResult, error)
	GetBranchTransactions(ctx context.Context, token string, page, limit int) (posapi.TransactionsPage, error)
}

// Stores holds all storage dependencies.
type Stores struct {
	DeletionStore deletionStore.Store
}

// loadCSRFKey decodes the configured CSRF secret (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey(keyHex string, production bool) []byte {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("POSME_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if production {
		log.Fatal("POSME_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set POSME_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance (set by NewMux)
var sessions *session.Store

// Global backend client instance (set by NewMux)
var api BackendAPI

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var supportEmailAddress string

// SetEmailSender sets the sender used to notify support of deletion requests.
func SetEmailSender(sender email.Sender, from, support string) {
	emailSender = sender
	emailFromAddress = from
	supportEmailAddress = support
}

// NewMux wires HTTP handlers for the app. csrfKeyHex comes from configuration;
// an empty value outside production falls back to a per-process random key.
func NewMux(staticDir string, s *Stores, backend BackendAPI, sess *session.Store, csrfKeyHex string, production bool) http.Handler {
	stores = s
	api = backend
	sessions = sess

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from configuration
	csrfKey := loadCSRFKey(csrfKeyHex, production)

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, []string{"localhost:8080", "127.0.0.1:8080"}),
		middleware.Auth(sess),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
