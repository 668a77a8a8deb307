package commands

import (
	"errors"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
	"bytebite/internal/pkg/guard"
)

var ErrRegisterMealCommandIsNotConstructed = errors.New(
	"RegisterMealCommand must be created via NewRegisterMealCommand constructor",
)

// RegisterMealCommand adds a dish to a restaurant's menu in an area.
// The meal details are validated by menu.NewMeal when the command is built.
type RegisterMealCommand struct {
	area    kernel.Area
	details menu.MealDetails

	guard guard.ConstructorGuard
}

func NewRegisterMealCommand(area string, details menu.MealDetails) (RegisterMealCommand, error) {
	a, err := kernel.NewArea(area)
	if err != nil {
		return RegisterMealCommand{}, err
	}

	// validated through a throwaway meal; the handler assigns the real id
	probe, err := menu.NewMeal(kernel.NewUUID(), a, details)
	if err != nil {
		return RegisterMealCommand{}, err
	}

	return RegisterMealCommand{
		area:    a,
		details: probe.Details(),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterMealCommand) Validate() error {
	return c.guard.Validate(ErrRegisterMealCommandIsNotConstructed)
}

func (c RegisterMealCommand) Area() kernel.Area { return c.area }
func (c RegisterMealCommand) Details() menu.MealDetails { return c.details }
