package queries

import (
	"context"

	"bytebite/internal/core/ports"
)

type GetMealsByAreaQueryHandler struct {
	meals ports.MealRepository
}

// NewGetMealsByAreaQueryHandler creates a handler for menu listing.
func NewGetMealsByAreaQueryHandler(meals ports.MealRepository) GetMealsByAreaQueryHandler {
	return GetMealsByAreaQueryHandler{meals: meals}
}

// Handle lists the meals of the area ordered by restaurant, then dish.
func (h GetMealsByAreaQueryHandler) Handle(ctx context.Context, query GetMealsByAreaQuery) ([]MealView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	meals, err := h.meals.ListByArea(ctx, query.Area())
	if err != nil {
		return nil, err
	}

	views := make([]MealView, 0, len(meals))
	for _, m := range meals {
		views = append(views, NewMealView(m))
	}
	return views, nil
}
