package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Addr    string `env:"ADDR" envDefault:":8080"`
	Env     string `env:"ENV" envDefault:"development"`
	DBPath  string `env:"DB_PATH" envDefault:"posme.db"`
	CSRFKey string `env:"CSRF_KEY"`

	API     API     `envPrefix:"API_"`
	Email   Email   `envPrefix:"RESEND_"`
	Support Support `envPrefix:"SUPPORT_"`
}

// API contains parameters for the external POS backend.
type API struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8085/api/v1"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Email contains Resend delivery parameters. An empty key disables delivery.
type Email struct {
	Key  string `env:"KEY"`
	From string `env:"FROM" envDefault:"POS ME <noreply@posme.app>"`
}

// Support contains the support-team contact used for deletion-request notifications.
type Support struct {
	Email string `env:"EMAIL" envDefault:"support@posme.app"`
}

// Load reads configuration from POSME_-prefixed environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "POSME_"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// IsProduction returns true when running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
