package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/providers"
)

// SyncListener invalidates provider caches when a completed sync is announced
// on the event bus. The cached repository already invalidates after its own
// writes; the listener covers batches persisted by other processes, such as
// the CLI runner or another API instance, whose writes this instance never
// observes directly.
type SyncListener struct {
	bus   providers.EventBus
	cache providers.CacheProvider
}

// NewSyncListener creates a new sync listener
func NewSyncListener(bus providers.EventBus, cache providers.CacheProvider) *SyncListener {
	return &SyncListener{bus: bus, cache: cache}
}

// Start subscribes to sync-completed events and handles them until ctx is
// cancelled or the subscription channel is closed
func (l *SyncListener) Start(ctx context.Context) error {
	events, err := l.bus.Subscribe(ctx, entities.EventSyncCompleted)
	if err != nil {
		return err
	}

	go l.run(ctx, events)
	return nil
}

func (l *SyncListener) run(ctx context.Context, events <-chan *entities.SyncEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			l.handle(ctx, event)
		}
	}
}

func (l *SyncListener) handle(ctx context.Context, event *entities.SyncEvent) {
	log.Info().
		Str("run_id", event.RunID).
		Str("province", event.Province).
		Int("count", event.Count).
		Msg("Sync completed, invalidating provider caches")

	// The event carries counts, not record IDs, so invalidation is by prefix
	if err := l.cache.DeletePattern(ctx, "provider:*"); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate provider caches")
	}
	if err := l.cache.DeletePattern(ctx, "providers:list:*"); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate provider list caches")
	}
}
