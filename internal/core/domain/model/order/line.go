package order

import (
	"errors"
	"math"
	"strings"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
)

// MaxQuantity caps the quantity of a single order line.
const MaxQuantity = 100

// MealRef identifies the meal a line was ordered from. MealID is optional:
// orders may reference a meal by dish and restaurant name only.
type MealRef struct {
	MealID         *kernel.UUID
	DishName       string
	RestaurantName string
}

// Line is one meal of an order.
type Line struct {
	meal            MealRef
	quantity        int
	unitPrice       float64
	prepTimeMinutes int
}

// NewLine validates a line. A zero quantity means "not given" and defaults to 1.
//
// Example:
//
//	line, err := order.NewLine(order.MealRef{DishName: "Pho", RestaurantName: "Pho 88"}, 2, 10, 15)
//	// line.Subtotal() == 20
func NewLine(meal MealRef, quantity int, unitPrice float64, prepTimeMinutes int) (Line, error) {
	if quantity == 0 {
		quantity = 1
	}

	meal.DishName = strings.TrimSpace(meal.DishName)
	meal.RestaurantName = strings.TrimSpace(meal.RestaurantName)

	var joined []error
	if meal.DishName == "" {
		joined = append(joined, errs.NewValueIsRequiredError("dishName"))
	}
	if meal.RestaurantName == "" {
		joined = append(joined, errs.NewValueIsRequiredError("restaurantName"))
	}
	if meal.MealID != nil {
		if err := meal.MealID.Validate(); err != nil {
			joined = append(joined, errs.NewValueIsInvalidErrorWithCause("mealId", err))
		}
	}
	if quantity < 1 || quantity > MaxQuantity {
		joined = append(joined, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantity))
	}
	if unitPrice < 0 || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		joined = append(joined, errs.NewValueIsOutOfRangeError("price", unitPrice, 0, math.MaxFloat64))
	}
	if prepTimeMinutes < 0 {
		joined = append(joined, errs.NewValueIsOutOfRangeError("prepTime", prepTimeMinutes, 0, math.MaxInt32))
	}
	if err := errors.Join(joined...); err != nil {
		return Line{}, err
	}

	return Line{meal: meal, quantity: quantity, unitPrice: unitPrice, prepTimeMinutes: prepTimeMinutes}, nil
}

func (l Line) Meal() MealRef { return l.meal }
func (l Line) Quantity() int { return l.quantity }
func (l Line) UnitPrice() float64 { return l.unitPrice }
func (l Line) PrepTimeMinutes() int { return l.prepTimeMinutes }
func (l Line) Subtotal() float64 { return l.unitPrice * float64(l.quantity) }
func (l Line) RestaurantName() string { return l.meal.RestaurantName }
