package config

import (
	"testing"
	"time"
)

// TestLoad_Defaults tests that Load fills defaults when no env vars are set.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected Addr=:8080, got %s", cfg.Addr)
	}
	if cfg.API.BaseURL != "http://localhost:8085/api/v1" {
		t.Errorf("unexpected API base URL: %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("expected 30s API timeout, got %v", cfg.API.Timeout)
	}
	if cfg.IsProduction() {
		t.Error("expected development environment by default")
	}
}

// TestLoad_EnvOverrides tests that POSME_-prefixed variables override defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("POSME_ADDR", ":9090")
	t.Setenv("POSME_ENV", "production")
	t.Setenv("POSME_API_BASE_URL", "https://pos.example.com/api/v1")
	t.Setenv("POSME_API_TIMEOUT", "5s")
	t.Setenv("POSME_SUPPORT_EMAIL", "help@example.com")
	t.Setenv("POSME_CSRF_KEY", "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("expected Addr=:9090, got %s", cfg.Addr)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.API.BaseURL != "https://pos.example.com/api/v1" {
		t.Errorf("unexpected API base URL: %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Support.Email != "help@example.com" {
		t.Errorf("unexpected support email: %s", cfg.Support.Email)
	}
	if cfg.CSRFKey != "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff" {
		t.Errorf("unexpected CSRF key: %s", cfg.CSRFKey)
	}
}
