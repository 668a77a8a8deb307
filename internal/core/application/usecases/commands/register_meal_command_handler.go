package commands

import (
	"context"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
	"bytebite/internal/core/ports"
)

// RegisterMealCommandHandler adds meals to the menu of an area.
type RegisterMealCommandHandler struct {
	meals ports.MealRepository
}

// NewRegisterMealCommandHandler creates a handler for meal registration.
func NewRegisterMealCommandHandler(meals ports.MealRepository) RegisterMealCommandHandler {
	return RegisterMealCommandHandler{meals: meals}
}

// Handle stores the meal and returns its id. The restaurant is referenced by
// name only and is not required to be registered.
func (h RegisterMealCommandHandler) Handle(ctx context.Context, cmd RegisterMealCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	m, err := menu.NewMeal(kernel.NewUUID(), cmd.Area(), cmd.Details())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = h.meals.Add(ctx, m); err != nil {
		return kernel.UUID{}, err
	}
	return m.ID(), nil
}
