package interfaces

import "context"

// EventPublisher pushes committed-transaction events to the outside
// world. Implementations must not block the ledger's critical path longer
// than the context allows.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
