package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have a recipient")

	// ErrSendFailed indicates the transport rejected or failed the delivery.
	ErrSendFailed = errors.New("mailer: failed to send email")

	// ErrMissingAPIKey indicates the Resend API key is not configured.
	ErrMissingAPIKey = errors.New("mailer: resend API key is required")

	// ErrMissingSMTPConfig indicates host, user or password is not configured.
	ErrMissingSMTPConfig = errors.New("mailer: smtp host, user and password are required")

	// ErrUnknownProvider indicates an unsupported EMAIL_PROVIDER value.
	ErrUnknownProvider = errors.New("mailer: unknown email provider")
)
