// Package menurepo persists restaurants and meals, partitioned by delivery area.
package menurepo

import (
	"fmt"
	"time"

	"bytebite/internal/adapters/out/tablestore/table"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
)

type RestaurantDTO struct {
	table.Entity   `gorm:"embedded"`
	RestaurantName string    `gorm:"column:restaurant_name;not null;index:idx_restaurants_name"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

type MealDTO struct {
	table.Entity    `gorm:"embedded"`
	RestaurantName  string    `gorm:"column:restaurant_name;not null"`
	DishName        string    `gorm:"column:dish_name;not null"`
	Description     string    `gorm:"column:description;not null"`
	Price           float64   `gorm:"column:price;not null"`
	PrepTimeMinutes int       `gorm:"column:prep_time_minutes;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (MealDTO) TableName() string {
	return "meals"
}

func restaurantFromDomain(r *menu.Restaurant, now time.Time) RestaurantDTO {
	return RestaurantDTO{
		Entity:         table.NewEntity(r.Area().String(), r.ID().String(), now),
		RestaurantName: r.Name(),
		CreatedAt:      table.Timestamp(now),
	}
}

func restaurantToDomain(dto RestaurantDTO) (*menu.Restaurant, error) {
	id, area, err := keys(dto.Entity)
	if err != nil {
		return nil, err
	}
	return menu.NewRestaurant(id, area, dto.RestaurantName)
}

func mealFromDomain(m *menu.Meal, now time.Time) MealDTO {
	return MealDTO{
		Entity:          table.NewEntity(m.Area().String(), m.ID().String(), now),
		RestaurantName:  m.RestaurantName(),
		DishName:        m.DishName(),
		Description:     m.Description(),
		Price:           m.Price(),
		PrepTimeMinutes: m.PrepTimeMinutes(),
		CreatedAt:       table.Timestamp(now),
	}
}

func mealToDomain(dto MealDTO) (*menu.Meal, error) {
	id, area, err := keys(dto.Entity)
	if err != nil {
		return nil, err
	}
	return menu.NewMeal(id, area, menu.MealDetails{
		RestaurantName:  dto.RestaurantName,
		DishName:        dto.DishName,
		Description:     dto.Description,
		Price:           dto.Price,
		PrepTimeMinutes: dto.PrepTimeMinutes,
	})
}

func keys(e table.Entity) (kernel.UUID, kernel.Area, error) {
	id, err := kernel.UUIDFromString(e.RowKey)
	if err != nil {
		return kernel.UUID{}, kernel.Area{}, fmt.Errorf("row %s: %w", e.RowKey, err)
	}
	area, err := kernel.NewArea(e.PartitionKey)
	if err != nil {
		return kernel.UUID{}, kernel.Area{}, fmt.Errorf("row %s: %w", e.RowKey, err)
	}
	return id, area, nil
}
