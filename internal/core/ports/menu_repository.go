package ports

import (
	"context"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
)

type RestaurantRepository interface {
	Add(ctx context.Context, aggregate *menu.Restaurant) error

	// FindByName returns errs.ErrObjectNotFound when the area has no restaurant with that name.
	FindByName(ctx context.Context, area kernel.Area, name string) (*menu.Restaurant, error)
}

type MealRepository interface {
	Add(ctx context.Context, aggregate *menu.Meal) error

	// ListByArea returns the meals of an area ordered by restaurant, then dish.
	ListByArea(ctx context.Context, area kernel.Area) ([]*menu.Meal, error)
}
