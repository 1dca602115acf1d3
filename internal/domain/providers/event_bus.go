package providers

import (
	"context"

	"github.com/santegabon/carto-backend/internal/domain/entities"
)

// EventBus publishes and delivers sync lifecycle events
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.SyncEvent) error

	// Subscribe subscribes to events on a channel. The subscription is
	// released when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.SyncEvent, error)

	// Close shuts down the bus and closes all subscriptions
	Close() error
}
