package commands

import (
	"errors"
	"strings"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/guard"
)

var ErrRegisterRestaurantCommandIsNotConstructed = errors.New(
	"RegisterRestaurantCommand must be created via NewRegisterRestaurantCommand constructor",
)

type RegisterRestaurantCommand struct {
	name string
	area kernel.Area

	guard guard.ConstructorGuard
}

func NewRegisterRestaurantCommand(name, area string) (RegisterRestaurantCommand, error) {
	cmd := RegisterRestaurantCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(cmd.setName(name), cmd.setArea(area)); err != nil {
		return RegisterRestaurantCommand{}, err
	}
	return cmd, nil
}

func (c RegisterRestaurantCommand) Validate() error {
	return c.guard.Validate(ErrRegisterRestaurantCommandIsNotConstructed)
}

func (c RegisterRestaurantCommand) Name() string { return c.name }
func (c RegisterRestaurantCommand) Area() kernel.Area { return c.area }

func (c *RegisterRestaurantCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("restaurantName")
	}
	c.name = name
	return nil
}

func (c *RegisterRestaurantCommand) setArea(area string) error {
	a, err := kernel.NewArea(area)
	if err != nil {
		return err
	}
	c.area = a
	return nil
}
