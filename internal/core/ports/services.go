package ports

import (
	"context"

	"ghgdeck/internal/core/domain"
)

// CacheService provides read-through caching of fetched documents.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes load-cycle events to a message broker.
type EventPublisher interface {
	PublishReload(ctx context.Context, ev *domain.ReloadEvent) error
}
