package smtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	gomail "gopkg.in/gomail.v2"

	"github.com/dmitrymomot/mailway/pkg/mailer"
)

// Sender implements mailer.Sender over a direct SMTP connection.
type Sender struct {
	dialer *gomail.Dialer
	host   string
	log    *slog.Logger
}

// New creates a new SMTP sender. Missing host, username or password is
// a construction error so the process fails at startup rather than per
// request.
func New(cfg Config, log *slog.Logger) (*Sender, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, mailer.ErrMissingSMTPConfig
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.Secure

	return &Sender{
		dialer: dialer,
		host:   cfg.Host,
		log:    log,
	}, nil
}

// Send implements mailer.Sender. SMTP servers do not echo an identifier
// back, so the Message-ID header is assigned here and reported as the
// provider message id.
//
// gomail carries no context support; the transport relies on the
// dialer's own connection timeouts.
func (s *Sender) Send(_ context.Context, email *mailer.Email) (*mailer.Result, error) {
	if email.To == "" {
		return nil, mailer.ErrNoRecipient
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host)

	m := gomail.NewMessage()
	m.SetHeader("From", email.From)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetHeader("Message-ID", messageID)

	switch {
	case email.Text != "" && email.HTML != "":
		m.SetBody("text/plain", email.Text)
		m.AddAlternative("text/html", email.HTML)
	case email.HTML != "":
		m.SetBody("text/html", email.HTML)
	default:
		m.SetBody("text/plain", email.Text)
	}

	for _, a := range email.Attachments {
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(a.Content)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}),
		)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return nil, errors.Join(mailer.ErrSendFailed, err)
	}

	return &mailer.Result{MessageID: messageID}, nil
}

// Verify implements mailer.Sender with a live connection check against
// the configured server. Connection failures are logged and reported as
// false rather than raised.
func (s *Sender) Verify(ctx context.Context) bool {
	conn, err := s.dialer.Dial()
	if err != nil {
		s.log.WarnContext(ctx, "smtp verification failed",
			slog.String("host", s.host),
			slog.String("error", err.Error()),
		)
		return false
	}
	_ = conn.Close()
	return true
}
