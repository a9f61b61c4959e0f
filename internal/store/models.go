package store

import "time"

// EmailStatus is the outcome of a send attempt.
type EmailStatus string

const (
	StatusSent   EmailStatus = "sent"
	StatusFailed EmailStatus = "failed"
	// StatusPending is reserved for a future asynchronous send mode.
	// The synchronous pipeline never assigns it.
	StatusPending EmailStatus = "pending"
)

// EmailRecord is the audit row for one send attempt.
type EmailRecord struct {
	ID                int64       `json:"id"`
	FromAddress       string      `json:"from_address"`
	ToAddress         string      `json:"to_address"`
	Subject           string      `json:"subject"`
	BodyText          string      `json:"body_text,omitempty"`
	BodyHTML          string      `json:"body_html,omitempty"`
	Status            EmailStatus `json:"status"`
	ProviderMessageID string      `json:"provider_message_id,omitempty"`
	ErrorMessage      string      `json:"error_message,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

// Attachment is stored metadata plus payload for one attached file.
// The payload is only loaded on retrieval by id; listings carry
// metadata alone.
type Attachment struct {
	ID               int64     `json:"id"`
	EmailID          int64     `json:"email_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	MimeType         string    `json:"mime_type"`
	Size             int64     `json:"size"`
	Content          []byte    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// Template is a reusable subject/body pair with named substitution
// variables.
type Template struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	BodyText  string    `json:"body_text,omitempty"`
	BodyHTML  string    `json:"body_html,omitempty"`
	Variables []string  `json:"variables"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
