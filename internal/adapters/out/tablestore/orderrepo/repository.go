package orderrepo

import (
	"context"

	"bytebite/internal/adapters/out/tablestore/table"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/order"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"

	"gorm.io/gorm"
)

const entityName = "order"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGormOrderRepository(db *gorm.DB, clock ports.Clock) *GormOrderRepository {
	return &GormOrderRepository{db: db, clock: clock}
}

// Add inserts the order with etag 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate, r.clock.Now())
	dto.ETag = 1
	if err := table.Insert(ctx, r.db, entityName, dto.RowKey, &dto); err != nil {
		return err
	}

	aggregate.SetVersion(dto.ETag)
	return nil
}

// Update writes the order if its version is still current.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate, r.clock.Now())
	expected := aggregate.Version()
	dto.ETag = expected + 1
	if err := table.UpdateIfMatch(ctx, r.db, entityName, dto.PartitionKey, dto.RowKey, expected, &dto); err != nil {
		return err
	}

	aggregate.SetVersion(dto.ETag)
	return nil
}

// Get retrieves an order by area and id.
func (r *GormOrderRepository) Get(ctx context.Context, area kernel.Area, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := table.Get(ctx, r.db, entityName, area.String(), id.String(), &dto); err != nil {
		return nil, err
	}

	o, err := toDomain(dto)
	if err != nil {
		return nil, errs.NewCorruptRecordError("order", dto.RowKey, err)
	}
	return o, nil
}
