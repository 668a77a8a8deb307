package menu

import (
	"errors"
	"strings"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
)

var ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant")

// Restaurant is identified by id; its name is unique per area by convention
// and is what orders reference.
type Restaurant struct {
	id            kernel.UUID
	area          kernel.Area
	name          string
	isConstructed bool
}

func NewRestaurant(id kernel.UUID, area kernel.Area, name string) (*Restaurant, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("restaurantName")
	}
	if err := errors.Join(id.Validate(), area.Validate(), nameErr); err != nil {
		return nil, err
	}
	return &Restaurant{id: id, area: area, name: name, isConstructed: true}, nil
}

func (r *Restaurant) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRestaurantIsNotConstructed
	}
	return nil
}

func (r *Restaurant) ID() kernel.UUID { return r.id }
func (r *Restaurant) Area() kernel.Area { return r.area }
func (r *Restaurant) Name() string { return r.name }
