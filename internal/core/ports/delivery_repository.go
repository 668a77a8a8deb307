package ports

import (
	"context"
	"time"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
)

// DeliveryRepository persists Delivery aggregates. Update is the only way a
// stored delivery changes, and it is conditional on the aggregate version.
type DeliveryRepository interface {
	// Add inserts a new delivery. An existing (area, id) pair yields errs.ErrConflict.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update writes the delivery only if its Version still matches the stored
	// etag, and yields errs.ErrVersionIsInvalid otherwise. Exactly one of
	// several writers holding the same version succeeds.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get returns errs.ErrObjectNotFound when no delivery exists for (area, id).
	Get(ctx context.Context, area kernel.Area, id kernel.UUID) (*delivery.Delivery, error)

	// ListByDriver returns every delivery of driverEmail across areas, most
	// recently assigned first.
	ListByDriver(ctx context.Context, driverEmail string) ([]*delivery.Delivery, error)

	// ListPendingNotNotifiedSince returns up to limit pending deliveries created
	// before cutoff whose last notification is missing or older than cutoff,
	// oldest first.
	ListPendingNotNotifiedSince(ctx context.Context, cutoff time.Time, limit int) ([]*delivery.Delivery, error)
}
