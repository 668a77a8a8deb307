package queries

import (
	"errors"
	"strings"

	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/guard"
)

var ErrGetMyDeliveriesQueryIsNotConstructed = errors.New(
	"GetMyDeliveriesQuery must be created via NewGetMyDeliveriesQuery constructor",
)

// GetMyDeliveriesQuery lists every delivery assigned to a driver, across areas.
type GetMyDeliveriesQuery struct {
	driverEmail string

	guard guard.ConstructorGuard
}

func NewGetMyDeliveriesQuery(driverEmail string) (GetMyDeliveriesQuery, error) {
	driverEmail = strings.TrimSpace(driverEmail)
	if driverEmail == "" {
		return GetMyDeliveriesQuery{}, errs.NewValueIsRequiredError("driverEmail")
	}
	return GetMyDeliveriesQuery{driverEmail: driverEmail, guard: guard.NewConstructorGuard()}, nil
}

func (q GetMyDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetMyDeliveriesQueryIsNotConstructed)
}

func (q GetMyDeliveriesQuery) DriverEmail() string {
	return q.driverEmail
}
