package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/mailway/internal/store"
	"github.com/dmitrymomot/mailway/pkg/fileval"
	"github.com/dmitrymomot/mailway/pkg/mailer"
	"github.com/dmitrymomot/mailway/pkg/tmplvar"
)

type templateGetter interface {
	GetByID(ctx context.Context, id int64) (*store.Template, error)
}

type emailRecorder interface {
	Create(ctx context.Context, p store.CreateEmailParams) (int64, error)
}

type attachmentSaver interface {
	CreateBatch(ctx context.Context, emailID int64, attachments []store.CreateAttachmentParams) error
}

// Dispatcher runs the send pipeline against a configured provider and
// records every attempt.
type Dispatcher struct {
	templates   templateGetter
	emails      emailRecorder
	attachments attachmentSaver
	sender      mailer.Sender
	allowed     []string
	log         *slog.Logger
}

// New wires a Dispatcher. The allowed list holds the bare addresses
// permitted as senders.
func New(
	templates templateGetter,
	emails emailRecorder,
	attachments attachmentSaver,
	sender mailer.Sender,
	allowed []string,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		templates:   templates,
		emails:      emails,
		attachments: attachments,
		sender:      sender,
		allowed:     allowed,
		log:         log,
	}
}

// Outcome is the result of a successful dispatch.
type Outcome struct {
	RecordID  int64  // audit record id
	MessageID string // provider message id
}

// Dispatch runs one send attempt through the full pipeline.
//
// Failures before the provider call (unknown template, missing fields,
// invalid attachment, disallowed sender) reject without writing
// anything. Once the provider has been invoked an audit record is
// written regardless of the outcome; a delivery failure surfaces as a
// *ProviderError carrying the record id. Attachment rows are persisted
// only after a successful delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, req *SendRequest) (*Outcome, error) {
	subject, text, html := req.Subject, req.Text, req.HTML

	if req.TemplateID != nil {
		tmpl, err := d.templates.GetByID(ctx, *req.TemplateID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		if err != nil {
			return nil, err
		}
		// The template replaces the inline content entirely; tokens
		// without a matching variable stay verbatim.
		subject = tmplvar.Substitute(tmpl.Subject, req.Variables)
		text = tmplvar.Substitute(tmpl.BodyText, req.Variables)
		html = tmplvar.Substitute(tmpl.BodyHTML, req.Variables)
	}

	if req.From == "" || req.To == "" || subject == "" {
		return nil, ErrMissingFields
	}

	// All attachments must pass before any is accepted.
	for _, a := range req.Attachments {
		if err := fileval.Validate(a.Filename, int64(len(a.Content)), a.ContentType); err != nil {
			return nil, err
		}
		if expected, mismatch := fileval.MIMEMismatch(a.Filename, a.ContentType); mismatch {
			d.log.WarnContext(ctx, "attachment MIME type does not match extension",
				slog.String("filename", a.Filename),
				slog.String("declared", a.ContentType),
				slog.String("expected", expected),
			)
		}
	}

	from := bareAddress(req.From)
	if !slices.Contains(d.allowed, from) {
		return nil, &SenderNotAllowedError{From: from, Allowed: d.allowed}
	}

	result, sendErr := d.sender.Send(ctx, &mailer.Email{
		From:        req.From,
		To:          req.To,
		Subject:     subject,
		Text:        text,
		HTML:        html,
		Attachments: toMailerAttachments(req.Attachments),
	})

	params := store.CreateEmailParams{
		FromAddress: req.From,
		ToAddress:   req.To,
		Subject:     subject,
		BodyText:    text,
		BodyHTML:    html,
	}
	if sendErr != nil {
		params.Status = store.StatusFailed
		params.ErrorMessage = sendErr.Error()
	} else {
		params.Status = store.StatusSent
		params.ProviderMessageID = result.MessageID
	}

	recordID, err := d.emails.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	if sendErr != nil {
		d.log.ErrorContext(ctx, "email delivery failed",
			slog.Int64("email_id", recordID),
			slog.String("to", req.To),
			slog.String("error", sendErr.Error()),
		)
		return nil, &ProviderError{Err: sendErr, RecordID: recordID}
	}

	if len(req.Attachments) > 0 {
		if err := d.attachments.CreateBatch(ctx, recordID, toStoreAttachments(req.Attachments)); err != nil {
			return nil, err
		}
	}

	d.log.InfoContext(ctx, "email sent",
		slog.Int64("email_id", recordID),
		slog.String("to", req.To),
		slog.String("message_id", result.MessageID),
	)

	return &Outcome{RecordID: recordID, MessageID: result.MessageID}, nil
}

func toMailerAttachments(attachments []Attachment) []mailer.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]mailer.Attachment, len(attachments))
	for i, a := range attachments {
		out[i] = mailer.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Content,
		}
	}
	return out
}

func toStoreAttachments(attachments []Attachment) []store.CreateAttachmentParams {
	out := make([]store.CreateAttachmentParams, len(attachments))
	for i, a := range attachments {
		out[i] = store.CreateAttachmentParams{
			Filename:         fileval.SanitizeFilename(a.Filename),
			OriginalFilename: a.Filename,
			MimeType:         a.ContentType,
			Size:             int64(len(a.Content)),
			Content:          a.Content,
		}
	}
	return out
}
