package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config holds logging configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Level       slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string     `env:"SENTRY_DSN"`
	Environment string     `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// New creates a JSON-formatted slog logger writing to stdout. When a
// Sentry DSN is configured, warnings and errors are additionally fanned
// out to Sentry; an empty DSN or a failed Sentry init degrades to
// stdout-only logging.
func New(cfg Config) *slog.Logger {
	stdoutHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level,
	})

	if cfg.SentryDSN == "" {
		return slog.New(stdoutHandler)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdoutHandler).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(stdoutHandler)
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(fanout(stdoutHandler, sentryHandler))
}
