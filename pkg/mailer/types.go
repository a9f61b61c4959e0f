package mailer

// Provider identifies a configured email transport backend.
type Provider string

// Supported providers, selected once at startup via configuration.
const (
	ProviderResend Provider = "resend"
	ProviderSMTP   Provider = "smtp"
)

// Config selects the transport backend. Provider-specific credentials
// live in the respective subpackage configs.
type Config struct {
	Provider Provider `env:"EMAIL_PROVIDER" envDefault:"resend"`
}

// Email represents a fully-prepared message ready for sending.
// Exactly one recipient is supported; there is no CC/BCC.
type Email struct {
	From        string       // Sender, either "addr" or "Name <addr>"
	To          string       // Single recipient
	Subject     string       // Resolved subject
	Text        string       // Plain text body (optional)
	HTML        string       // HTML body (optional)
	Attachments []Attachment // File attachments (optional)
}

// Attachment represents an email attachment payload.
type Attachment struct {
	Filename    string // Display name for the attachment
	ContentType string // Declared MIME type
	Content     []byte // Raw file content
}

// Result reports a successful delivery.
type Result struct {
	MessageID string // The transport's identifier for the sent message
}
