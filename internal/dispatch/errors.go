package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRequest indicates the request body could not be parsed.
	ErrMalformedRequest = errors.New("dispatch: malformed request body")

	// ErrMissingFields indicates from, to or the resolved subject is empty.
	ErrMissingFields = errors.New("dispatch: missing required fields: from, to, subject")

	// ErrTemplateNotFound indicates the referenced template id does not exist.
	ErrTemplateNotFound = errors.New("dispatch: template not found")
)

// SenderNotAllowedError rejects a from address that is not on the
// configured allow-list. The list is disclosed to aid operator
// debugging.
type SenderNotAllowedError struct {
	From    string
	Allowed []string
}

func (e *SenderNotAllowedError) Error() string {
	return fmt.Sprintf("dispatch: from address %q is not allowed", e.From)
}

// ProviderError reports a failed delivery after the audit record was
// written. RecordID lets the caller correlate the failure with the
// stored attempt.
type ProviderError struct {
	Err      error
	RecordID int64
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("dispatch: provider failed to send email (record %d): %v", e.RecordID, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
