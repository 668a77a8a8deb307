package commands

import (
	"context"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
	"bytebite/internal/core/ports"
)

// RegisterRestaurantCommandHandler adds restaurants to an area.
type RegisterRestaurantCommandHandler struct {
	restaurants ports.RestaurantRepository
}

// NewRegisterRestaurantCommandHandler creates a handler for restaurant registration.
func NewRegisterRestaurantCommandHandler(restaurants ports.RestaurantRepository) RegisterRestaurantCommandHandler {
	return RegisterRestaurantCommandHandler{restaurants: restaurants}
}

// Handle stores a new restaurant and returns its id. Names are not unique:
// registering the same name twice yields two restaurants.
func (h RegisterRestaurantCommandHandler) Handle(ctx context.Context, cmd RegisterRestaurantCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	r, err := menu.NewRestaurant(kernel.NewUUID(), cmd.Area(), cmd.Name())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = h.restaurants.Add(ctx, r); err != nil {
		return kernel.UUID{}, err
	}
	return r.ID(), nil
}
