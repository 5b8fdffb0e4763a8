// Package mail delivers transactional messages for account lifecycle events.
// The Mailer interface decouples the engine from the transport so tests can
// capture outgoing messages without a network.
package mail

import "context"

// Mailer defines a public type used by aegis APIs.
type Mailer interface {
	// Send delivers a single HTML message to the given recipient.
	Send(ctx context.Context, to, subject, htmlBody string) error
}
