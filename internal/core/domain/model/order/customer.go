package order

import (
	"errors"
	"strings"

	"bytebite/internal/pkg/errs"
)

// Customer is the recipient of an order. Phone is optional.
type Customer struct {
	name    string
	address string
	phone   string
}

func NewCustomer(name, address, phone string) (Customer, error) {
	c := Customer{
		name:    strings.TrimSpace(name),
		address: strings.TrimSpace(address),
		phone:   strings.TrimSpace(phone),
	}
	var joined []error
	if c.name == "" {
		joined = append(joined, errs.NewValueIsRequiredError("customerName"))
	}
	if c.address == "" {
		joined = append(joined, errs.NewValueIsRequiredError("customerAddress"))
	}
	if err := errors.Join(joined...); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (c Customer) Name() string { return c.name }
func (c Customer) Address() string { return c.address }
func (c Customer) Phone() string { return c.phone }
