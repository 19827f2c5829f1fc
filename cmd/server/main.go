package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "posme/internal/adapters/email"
	web "posme/internal/adapters/http"
	"posme/internal/adapters/posapi"
	"posme/internal/adapters/storage"
	authStateStore "posme/internal/adapters/storage/authstate"
	deletionStorePkg "posme/internal/adapters/storage/deletion"
	"posme/internal/config"
	"posme/internal/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// authStatePurgeInterval controls how often expired auth state rows are swept.
const authStatePurgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	authStates := authStateStore.NewSQLiteStore(db)
	stores := &web.Stores{
		DeletionStore: deletionStorePkg.NewSQLiteStore(db),
	}

	sessions := session.NewStore(authStates)
	sessions.SecureCookies = cfg.IsProduction()

	// Backend client for the POS REST API
	backend := posapi.New(cfg.API.BaseURL, cfg.API.Timeout)
	backend.SetOnUnauthorized(func(ctx context.Context) {
		slog.Info("auth_event", "event", "backend_rejected_token")
	})

	// Configure email sender for deletion-request notifications
	if cfg.Email.Key != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.Email.Key), cfg.Email.From, cfg.Support.Email)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.Email.From, cfg.Support.Email)
		if cfg.IsProduction() {
			log.Println("WARNING: POSME_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set POSME_RESEND_KEY for real delivery)")
		}
	}

	// Sweep auth state rows older than the cookie lifetime so abandoned
	// devices don't accumulate forever.
	purgeStopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(authStatePurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-time.Duration(session.AuthCookieMaxAge) * time.Second)
				n, err := authStates.PurgeOlderThan(context.Background(), cutoff)
				if err != nil {
					slog.Error("auth_state_purge_failed", "error", err.Error())
				} else if n > 0 {
					slog.Info("auth_state_purged", "rows", n)
				}
			case <-purgeStopCh:
				return
			}
		}
	}()
	defer close(purgeStopCh)

	mux := web.NewMux("static", stores, backend, sessions, cfg.CSRFKey, cfg.IsProduction())

	log.Printf("POS ME %s starting on %s (env=%s, api=%s)", version, cfg.Addr, cfg.Env, cfg.API.BaseURL)

	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
