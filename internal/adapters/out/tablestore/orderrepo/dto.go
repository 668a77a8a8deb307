// Package orderrepo persists Order aggregates in the orders table, partitioned
// by delivery area. Order lines are stored as one JSON column.
package orderrepo

import (
	"fmt"
	"time"

	"bytebite/internal/adapters/out/tablestore/table"
	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/order"
)

// OrderDTO is the row of the orders table.
type OrderDTO struct {
	table.Entity    `gorm:"embedded"`
	CustomerName    string    `gorm:"column:customer_name;not null"`
	CustomerAddress string    `gorm:"column:customer_address;not null"`
	CustomerPhone   string    `gorm:"column:customer_phone"`
	Lines           []LineDTO `gorm:"column:lines;serializer:json;type:text;not null"`
	TotalPrice      float64   `gorm:"column:total_price;not null"`
	Status          string    `gorm:"column:status;not null"`
	DriverEmail     string    `gorm:"column:driver_email"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO is one element of the JSON encoded lines column.
type LineDTO struct {
	MealID          string  `json:"mealId,omitempty"`
	DishName        string  `json:"dishName"`
	RestaurantName  string  `json:"restaurantName"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	PrepTimeMinutes int     `json:"prepTimeMinutes"`
}

func fromDomain(o *order.Order, now time.Time) OrderDTO {
	s := o.Snapshot()

	lines := make([]LineDTO, 0, len(s.Lines))
	for _, l := range s.Lines {
		dto := LineDTO{
			DishName:        l.Meal().DishName,
			RestaurantName:  l.Meal().RestaurantName,
			Quantity:        l.Quantity(),
			UnitPrice:       l.UnitPrice(),
			PrepTimeMinutes: l.PrepTimeMinutes(),
		}
		if id := l.Meal().MealID; id != nil {
			dto.MealID = id.String()
		}
		lines = append(lines, dto)
	}

	entity := table.NewEntity(s.Area.String(), s.ID.String(), now)
	entity.ETag = s.Version

	return OrderDTO{
		Entity:          entity,
		CustomerName:    s.Customer.Name(),
		CustomerAddress: s.Customer.Address(),
		CustomerPhone:   s.Customer.Phone(),
		Lines:           lines,
		TotalPrice:      s.TotalPrice,
		Status:          s.Status.String(),
		DriverEmail:     s.DriverEmail,
		CreatedAt:       table.Timestamp(s.CreatedAt),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromString(dto.RowKey)
	if err != nil {
		return nil, fmt.Errorf("order row %s: %w", dto.RowKey, err)
	}
	area, err := kernel.NewArea(dto.PartitionKey)
	if err != nil {
		return nil, fmt.Errorf("order row %s: %w", dto.RowKey, err)
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, fmt.Errorf("order row %s: %w", dto.RowKey, err)
	}
	customer, err := order.NewCustomer(dto.CustomerName, dto.CustomerAddress, dto.CustomerPhone)
	if err != nil {
		return nil, fmt.Errorf("order row %s: %w", dto.RowKey, err)
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		ref := order.MealRef{DishName: l.DishName, RestaurantName: l.RestaurantName}
		if l.MealID != "" {
			mealID, parseErr := kernel.UUIDFromString(l.MealID)
			if parseErr != nil {
				return nil, fmt.Errorf("order row %s: %w", dto.RowKey, parseErr)
			}
			ref.MealID = &mealID
		}
		line, lineErr := order.NewLine(ref, l.Quantity, l.UnitPrice, l.PrepTimeMinutes)
		if lineErr != nil {
			return nil, fmt.Errorf("order row %s: %w", dto.RowKey, lineErr)
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:          id,
		Area:        area,
		Customer:    customer,
		Lines:       lines,
		TotalPrice:  dto.TotalPrice,
		Status:      status,
		DriverEmail: dto.DriverEmail,
		CreatedAt:   dto.CreatedAt.UTC(),
		Version:     dto.ETag,
	})
}
