package ports

import "context"

// Outbound text messaging provider used by the relay.
type SMSSender interface {
	// Send body to the E.164 number and return the provider's message id.
	Send(ctx context.Context, to string, body string) (string, error)
}
