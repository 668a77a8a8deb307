package menu

import (
	"errors"
	"math"
	"strings"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
)

var ErrMealIsNotConstructed = errors.New("Meal must be created via NewMeal")

// MealDetails are the descriptive values of a meal.
type MealDetails struct {
	RestaurantName  string
	DishName        string
	Description     string
	Price           float64
	PrepTimeMinutes int
}

// Meal is a dish a restaurant offers in an area.
//
// Invariants: every text field is non-blank, price and prep time are strictly positive.
type Meal struct {
	id            kernel.UUID
	area          kernel.Area
	details       MealDetails
	isConstructed bool
}

// NewMeal validates and creates a meal.
//
// Example:
//
//	meal, err := menu.NewMeal(kernel.NewUUID(), area, menu.MealDetails{
//	    RestaurantName: "Pho 88", DishName: "Pho", Description: "Beef noodle soup",
//	    Price: 10, PrepTimeMinutes: 15,
//	})
func NewMeal(id kernel.UUID, area kernel.Area, details MealDetails) (*Meal, error) {
	details.RestaurantName = strings.TrimSpace(details.RestaurantName)
	details.DishName = strings.TrimSpace(details.DishName)
	details.Description = strings.TrimSpace(details.Description)

	joined := []error{id.Validate(), area.Validate()}
	for param, value := range map[string]string{
		"restaurantName": details.RestaurantName,
		"dishName":       details.DishName,
		"description":    details.Description,
	} {
		if value == "" {
			joined = append(joined, errs.NewValueIsRequiredError(param))
		}
	}
	if details.Price <= 0 || math.IsNaN(details.Price) || math.IsInf(details.Price, 0) {
		joined = append(joined, errs.NewValueIsOutOfRangeError("price", details.Price, "> 0", math.MaxFloat64))
	}
	if details.PrepTimeMinutes <= 0 {
		joined = append(joined, errs.NewValueIsOutOfRangeError("prepTime", details.PrepTimeMinutes, 1, math.MaxInt32))
	}
	if err := errors.Join(joined...); err != nil {
		return nil, err
	}

	return &Meal{id: id, area: area, details: details, isConstructed: true}, nil
}

func (m *Meal) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMealIsNotConstructed
	}
	return nil
}

func (m *Meal) ID() kernel.UUID { return m.id }
func (m *Meal) Area() kernel.Area { return m.area }
func (m *Meal) Details() MealDetails { return m.details }
func (m *Meal) RestaurantName() string { return m.details.RestaurantName }
func (m *Meal) DishName() string { return m.details.DishName }
func (m *Meal) Description() string { return m.details.Description }
func (m *Meal) Price() float64 { return m.details.Price }
func (m *Meal) PrepTimeMinutes() int { return m.details.PrepTimeMinutes }
