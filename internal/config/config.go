// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/mailway/pkg/db"
	"github.com/dmitrymomot/mailway/pkg/logger"
	"github.com/dmitrymomot/mailway/pkg/mailer"
	"github.com/dmitrymomot/mailway/pkg/mailer/resend"
	"github.com/dmitrymomot/mailway/pkg/mailer/smtp"
)

// Config aggregates every component's configuration. It is loaded once
// at startup and passed down by reference.
type Config struct {
	Port int `env:"PORT" envDefault:"3000"`

	// FromAddresses is the sender allow-list. A send request whose bare
	// from address is not on this list is rejected.
	FromAddresses []string `env:"FROM_ADDRESSES,required" envSeparator:","`

	DB     db.Config
	Mailer mailer.Config
	Resend resend.Config
	SMTP   smtp.Config
	Log    logger.Config
}

// Load reads an optional .env file and parses the environment into a
// Config. Provider credentials are validated by the provider
// constructors, not here, so only the configured provider's settings
// need to be present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	// The allow-list is matched by exact string comparison, so entries
	// written as "a@x.com, b@x.com" must lose their padding here.
	addresses := cfg.FromAddresses[:0]
	for _, addr := range cfg.FromAddresses {
		if addr = strings.TrimSpace(addr); addr != "" {
			addresses = append(addresses, addr)
		}
	}
	cfg.FromAddresses = addresses

	return &cfg, nil
}
