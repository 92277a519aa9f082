package ports

import (
	"context"
	"drivesafe-service/internal/domain"
)

// Contract for handing a help request to whoever alerts responders.
type Notifier interface {
	// Deliver the request and wait for the relay's acknowledgement.
	Notify(ctx context.Context, req domain.HelpRequest) (domain.Receipt, error)
}
