package mailer

import "context"

// Sender is the minimal interface email providers implement.
type Sender interface {
	// Send delivers the email and returns the provider's message id.
	// Transport failures come back as errors, never panics, so the
	// caller's bookkeeping is unconditional.
	Send(ctx context.Context, email *Email) (*Result, error)

	// Verify performs a best-effort liveness/configuration check
	// against the transport. Failures are logged by the implementation
	// and reported as false rather than raised.
	Verify(ctx context.Context) bool
}
