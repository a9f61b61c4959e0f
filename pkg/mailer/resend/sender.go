package resend

import (
	"context"
	"errors"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/mailway/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend HTTP API.
type Sender struct {
	client *resend.Client
	log    *slog.Logger
}

// New creates a new Resend sender. A missing API key is a construction
// error so the process fails at startup rather than per request.
func New(cfg Config, log *slog.Logger) (*Sender, error) {
	if cfg.APIKey == "" {
		return nil, mailer.ErrMissingAPIKey
	}
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		log:    log,
	}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (*mailer.Result, error) {
	if email.To == "" {
		return nil, mailer.ErrNoRecipient
	}

	req := &resend.SendEmailRequest{
		From: email.From,
		// The Resend API takes a recipient list; this service sends to
		// exactly one address per request.
		To:      []string{email.To},
		Subject: email.Subject,
		Text:    email.Text,
		Html:    email.HTML,
	}

	if len(email.Attachments) > 0 {
		req.Attachments = convertAttachments(email.Attachments)
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, errors.Join(mailer.ErrSendFailed, err)
	}

	return &mailer.Result{MessageID: sent.Id}, nil
}

// Verify implements mailer.Sender. The Resend API has no dedicated
// verification endpoint; a configured client is considered ready since
// the API key presence is already enforced at construction.
func (s *Sender) Verify(ctx context.Context) bool {
	if s.client == nil {
		s.log.WarnContext(ctx, "resend client is not configured")
		return false
	}
	return true
}

func convertAttachments(attachments []mailer.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		}
	}
	return result
}
