// Command server runs the transactional email API: dispatch with
// provider fallback to an audit trail, template management and
// attachment downloads.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mailway/internal/config"
	"github.com/dmitrymomot/mailway/internal/dispatch"
	"github.com/dmitrymomot/mailway/internal/handler"
	"github.com/dmitrymomot/mailway/internal/store"
	"github.com/dmitrymomot/mailway/pkg/db"
	"github.com/dmitrymomot/mailway/pkg/health"
	"github.com/dmitrymomot/mailway/pkg/logger"
	"github.com/dmitrymomot/mailway/pkg/mailer"
	"github.com/dmitrymomot/mailway/pkg/mailer/resend"
	"github.com/dmitrymomot/mailway/pkg/mailer/smtp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, store.Migrations(), log); err != nil {
		return err
	}

	sender, err := newSender(cfg, log)
	if err != nil {
		return err
	}
	if sender.Verify(ctx) {
		log.InfoContext(ctx, "email provider verified", slog.String("provider", string(cfg.Mailer.Provider)))
	} else {
		// The service still starts; sends will fail and be recorded.
		log.WarnContext(ctx, "email provider verification failed", slog.String("provider", string(cfg.Mailer.Provider)))
	}

	emails := store.NewEmailStore(pool)
	attachments := store.NewAttachmentStore(pool)
	templates := store.NewTemplateStore(pool)

	dispatcher := dispatch.New(templates, emails, attachments, sender, cfg.FromAddresses, log)

	router := handler.NewRouter(
		handler.NewEmailHandler(dispatcher, emails, attachments, log),
		handler.NewTemplateHandler(templates, log),
		handler.NewAttachmentHandler(attachments, log),
		health.Handler(healthChecks(pool, sender, cfg), health.WithLogger(log)),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(ctx, "server listening",
			slog.String("addr", server.Addr),
			slog.String("provider", string(cfg.Mailer.Provider)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newSender builds the transport selected by EMAIL_PROVIDER. Only the
// active provider's credentials are required.
func newSender(cfg *config.Config, log *slog.Logger) (mailer.Sender, error) {
	switch cfg.Mailer.Provider {
	case mailer.ProviderResend:
		return resend.New(cfg.Resend, log)
	case mailer.ProviderSMTP:
		return smtp.New(cfg.SMTP, log)
	default:
		return nil, fmt.Errorf("%w: %q", mailer.ErrUnknownProvider, cfg.Mailer.Provider)
	}
}

func healthChecks(pool *pgxpool.Pool, sender mailer.Sender, cfg *config.Config) health.Checks {
	return health.Checks{
		"database": func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
		"provider": func(ctx context.Context) error {
			if !sender.Verify(ctx) {
				return fmt.Errorf("provider %s is not reachable", cfg.Mailer.Provider)
			}
			return nil
		},
		"senders": func(context.Context) error {
			if len(cfg.FromAddresses) == 0 {
				return errors.New("sender allow-list is empty")
			}
			return nil
		},
	}
}
