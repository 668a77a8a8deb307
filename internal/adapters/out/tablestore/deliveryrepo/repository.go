package deliveryrepo

import (
	"context"
	"strings"
	"time"

	"bytebite/internal/adapters/out/tablestore/table"
	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"

	"gorm.io/gorm"
)

const entityName = "delivery"

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGormDeliveryRepository(db *gorm.DB, clock ports.Clock) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db, clock: clock}
}

// Add inserts the delivery with etag 1.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
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

// Update is the etag-conditional write every claim and status change goes through.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
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

// Get retrieves a delivery by area and id.
func (r *GormDeliveryRepository) Get(ctx context.Context, area kernel.Area, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := table.Get(ctx, r.db, entityName, area.String(), id.String(), &dto); err != nil {
		return nil, err
	}

	return decode(dto)
}

// ListByDriver returns the driver's deliveries across all areas, newest assignment first.
func (r *GormDeliveryRepository) ListByDriver(ctx context.Context, driverEmail string) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Where("LOWER(driver_email) = ?", strings.ToLower(strings.TrimSpace(driverEmail))).
		Order("assigned_at DESC").
		Order("row_key").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list deliveries by driver", err)
	}

	return decodeAll(dtos)
}

// ListPendingNotNotifiedSince feeds the reconciliation job.
func (r *GormDeliveryRepository) ListPendingNotNotifiedSince(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*delivery.Delivery, error) {
	ts := table.Timestamp(cutoff)

	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", delivery.Pending.String()).
		Where("created_at < ?", ts).
		Where(r.db.Where("notified_at IS NULL").Or("notified_at < ?", ts)).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list unnotified deliveries", err)
	}

	return decodeAll(dtos)
}

func decode(dto DeliveryDTO) (*delivery.Delivery, error) {
	d, err := toDomain(dto)
	if err != nil {
		return nil, errs.NewCorruptRecordError("delivery", dto.RowKey, err)
	}
	return d, nil
}

func decodeAll(dtos []DeliveryDTO) ([]*delivery.Delivery, error) {
	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, err := decode(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}
