// Package queries contains the read operations: candidate polling for
// drivers, a driver's own deliveries and the meals of an area.
package queries

import (
	"time"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/menu"
)

// DeliveryView is the read model of a delivery handed to drivers.
type DeliveryView struct {
	DeliveryID       string
	OrderID          string
	Area             string
	CustomerName     string
	CustomerAddress  string
	RestaurantName   string
	TotalPrice       float64
	EstimatedMinutes int
	Status           string
	DriverEmail      string
	CreatedAt        time.Time
	AssignedAt       *time.Time
	PickedUpAt       *time.Time
	InTransitAt      *time.Time
	DeliveredAt      *time.Time
}

func NewDeliveryView(d *delivery.Delivery) DeliveryView {
	return DeliveryView{
		DeliveryID:       d.ID().String(),
		OrderID:          d.OrderID().String(),
		Area:             d.Area().String(),
		CustomerName:     d.CustomerName(),
		CustomerAddress:  d.CustomerAddress(),
		RestaurantName:   d.RestaurantName(),
		TotalPrice:       d.TotalPrice(),
		EstimatedMinutes: d.EstimatedMinutes(),
		Status:           d.Status().String(),
		DriverEmail:      d.DriverEmail(),
		CreatedAt:        d.CreatedAt(),
		AssignedAt:       d.AssignedAt(),
		PickedUpAt:       d.PickedUpAt(),
		InTransitAt:      d.InTransitAt(),
		DeliveredAt:      d.DeliveredAt(),
	}
}

type MealView struct {
	MealID          string
	Area            string
	RestaurantName  string
	DishName        string
	Description     string
	Price           float64
	PrepTimeMinutes int
}

func NewMealView(m *menu.Meal) MealView {
	return MealView{
		MealID:          m.ID().String(),
		Area:            m.Area().String(),
		RestaurantName:  m.RestaurantName(),
		DishName:        m.DishName(),
		Description:     m.Description(),
		Price:           m.Price(),
		PrepTimeMinutes: m.PrepTimeMinutes(),
	}
}
