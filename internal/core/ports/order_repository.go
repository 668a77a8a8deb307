// Package ports defines the contracts between the application core and its
// adapters: entity store repositories, the dispatch queue and the clock.
package ports

import (
	"context"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates, partitioned by delivery area.
type OrderRepository interface {
	// Add inserts a new order. An existing (area, id) pair yields errs.ErrConflict.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order only if its Version still matches the stored etag.
	// A stale version yields errs.ErrVersionIsInvalid; on success the aggregate
	// carries the new version.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ErrObjectNotFound when no order exists for (area, id).
	Get(ctx context.Context, area kernel.Area, id kernel.UUID) (*order.Order, error)
}
