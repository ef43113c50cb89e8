package shared

import (
	"context"

	"github.com/laundry/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EventSource is an aggregate that records domain events
type EventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// PublishEvents hands the pending events of each source to publisher and
// clears them. It is called only after the aggregates were saved. Publish
// failures are logged; the write has already committed.
func PublishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, sources ...EventSource) {
	for _, src := range sources {
		if src == nil {
			continue
		}
		events := src.GetDomainEvents()
		src.ClearDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil && logger != nil {
			logger.Warn("Failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
		}
	}
}
