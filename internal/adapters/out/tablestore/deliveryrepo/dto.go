// Package deliveryrepo persists Delivery aggregates in the deliveries table.
// Every change after the insert goes through an etag-conditional update.
package deliveryrepo

import (
	"fmt"
	"time"

	"bytebite/internal/adapters/out/tablestore/table"
	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
)

// DeliveryDTO is the row of the deliveries table.
type DeliveryDTO struct {
	table.Entity     `gorm:"embedded"`
	OrderID          string     `gorm:"column:order_id;not null;size:64"`
	CustomerName     string     `gorm:"column:customer_name;not null"`
	CustomerAddress  string     `gorm:"column:customer_address;not null"`
	RestaurantName   string     `gorm:"column:restaurant_name;not null"`
	TotalPrice       float64    `gorm:"column:total_price;not null"`
	EstimatedMinutes int        `gorm:"column:estimated_minutes;not null"`
	Status           string     `gorm:"column:status;not null;index:idx_deliveries_status_notified,priority:1"`
	DriverEmail      string     `gorm:"column:driver_email;index:idx_deliveries_driver_assigned,priority:1"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	AssignedAt       *time.Time `gorm:"column:assigned_at;index:idx_deliveries_driver_assigned,priority:2"`
	PickedUpAt       *time.Time `gorm:"column:picked_up_at"`
	InTransitAt      *time.Time `gorm:"column:in_transit_at"`
	DeliveredAt      *time.Time `gorm:"column:delivered_at"`
	NotifiedAt       *time.Time `gorm:"column:notified_at;index:idx_deliveries_status_notified,priority:2"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

func fromDomain(d *delivery.Delivery, now time.Time) DeliveryDTO {
	s := d.Snapshot()

	entity := table.NewEntity(s.Area.String(), s.ID.String(), now)
	entity.ETag = s.Version

	return DeliveryDTO{
		Entity:           entity,
		OrderID:          s.OrderID.String(),
		CustomerName:     s.CustomerName,
		CustomerAddress:  s.CustomerAddress,
		RestaurantName:   s.RestaurantName,
		TotalPrice:       s.TotalPrice,
		EstimatedMinutes: s.EstimatedMinutes,
		Status:           s.Status.String(),
		DriverEmail:      s.DriverEmail,
		CreatedAt:        table.Timestamp(s.CreatedAt),
		AssignedAt:       table.TimestampPtr(s.AssignedAt),
		PickedUpAt:       table.TimestampPtr(s.PickedUpAt),
		InTransitAt:      table.TimestampPtr(s.InTransitAt),
		DeliveredAt:      table.TimestampPtr(s.DeliveredAt),
		NotifiedAt:       table.TimestampPtr(s.NotifiedAt),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromString(dto.RowKey)
	if err != nil {
		return nil, fmt.Errorf("delivery row %s: %w", dto.RowKey, err)
	}
	orderID, err := kernel.UUIDFromString(dto.OrderID)
	if err != nil {
		return nil, fmt.Errorf("delivery row %s: %w", dto.RowKey, err)
	}
	area, err := kernel.NewArea(dto.PartitionKey)
	if err != nil {
		return nil, fmt.Errorf("delivery row %s: %w", dto.RowKey, err)
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, fmt.Errorf("delivery row %s: %w", dto.RowKey, err)
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:               id,
		OrderID:          orderID,
		Area:             area,
		CustomerName:     dto.CustomerName,
		CustomerAddress:  dto.CustomerAddress,
		RestaurantName:   dto.RestaurantName,
		TotalPrice:       dto.TotalPrice,
		EstimatedMinutes: dto.EstimatedMinutes,
		Status:           status,
		DriverEmail:      dto.DriverEmail,
		CreatedAt:        dto.CreatedAt.UTC(),
		AssignedAt:       utc(dto.AssignedAt),
		PickedUpAt:       utc(dto.PickedUpAt),
		InTransitAt:      utc(dto.InTransitAt),
		DeliveredAt:      utc(dto.DeliveredAt),
		NotifiedAt:       utc(dto.NotifiedAt),
		Version:          dto.ETag,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
