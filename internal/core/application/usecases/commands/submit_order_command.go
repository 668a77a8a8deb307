package commands

import (
	"errors"
	"fmt"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/order"
	"bytebite/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderMeal is one requested meal of a checkout. Quantity 0 means
// "not given" and counts as 1.
type SubmitOrderMeal struct {
	MealID          *kernel.UUID
	DishName        string
	RestaurantName  string
	Price           float64
	PrepTimeMinutes int
	Quantity        int
}

// SubmitOrderCommand is a customer checkout: who orders, where to, and which meals.
//
// Example:
//
//	cmd, err := NewSubmitOrderCommand("downtown", "Ana", "1 Main St", "", []SubmitOrderMeal{
//	    {DishName: "Pho", RestaurantName: "Pho 88", Price: 10, PrepTimeMinutes: 15, Quantity: 2},
//	})
//	if err != nil {
//	    return err // validation, maps to 400
//	}
//	res, err := handler.Handle(ctx, cmd)
type SubmitOrderCommand struct {
	area     kernel.Area
	customer order.Customer
	lines    []order.Line

	guard guard.ConstructorGuard
}

func NewSubmitOrderCommand(
	area, customerName, customerAddress, customerPhone string,
	meals []SubmitOrderMeal,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setArea(area),
		cmd.setCustomer(customerName, customerAddress, customerPhone),
		cmd.setLines(meals),
	); err != nil {
		return SubmitOrderCommand{}, err
	}
	return cmd, nil
}

func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

func (c SubmitOrderCommand) Area() kernel.Area {
	return c.area
}

func (c SubmitOrderCommand) Customer() order.Customer {
	return c.customer
}

func (c SubmitOrderCommand) Lines() []order.Line {
	return append([]order.Line(nil), c.lines...)
}

func (c *SubmitOrderCommand) setArea(area string) error {
	a, err := kernel.NewArea(area)
	if err != nil {
		return err
	}
	c.area = a
	return nil
}

func (c *SubmitOrderCommand) setCustomer(name, address, phone string) error {
	customer, err := order.NewCustomer(name, address, phone)
	if err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *SubmitOrderCommand) setLines(meals []SubmitOrderMeal) error {
	if len(meals) == 0 {
		return order.ErrOrderHasNoLines
	}

	lines := make([]order.Line, 0, len(meals))
	var joined []error
	for i, m := range meals {
		line, err := order.NewLine(
			order.MealRef{MealID: m.MealID, DishName: m.DishName, RestaurantName: m.RestaurantName},
			m.Quantity,
			m.Price,
			m.PrepTimeMinutes,
		)
		if err != nil {
			joined = append(joined, fmt.Errorf("meals[%d]: %w", i, err))
			continue
		}
		lines = append(lines, line)
	}
	if err := errors.Join(joined...); err != nil {
		return err
	}

	c.lines = lines
	return nil
}
