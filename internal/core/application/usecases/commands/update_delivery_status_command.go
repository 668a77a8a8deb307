package commands

import (
	"errors"
	"strings"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand is the assigned driver reporting progress.
// Only picked_up, in_transit and delivered can be reported.
type UpdateDeliveryStatusCommand struct {
	area        kernel.Area
	deliveryID  kernel.UUID
	driverEmail string
	status      delivery.Status

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryStatusCommand(area, deliveryID, driverEmail, status string) (UpdateDeliveryStatusCommand, error) {
	cmd := UpdateDeliveryStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setArea(area),
		cmd.setDeliveryID(deliveryID),
		cmd.setDriverEmail(driverEmail),
		cmd.setStatus(status),
	); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}
	return cmd, nil
}

func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

func (c UpdateDeliveryStatusCommand) Area() kernel.Area { return c.area }
func (c UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c UpdateDeliveryStatusCommand) DriverEmail() string { return c.driverEmail }
func (c UpdateDeliveryStatusCommand) Status() delivery.Status { return c.status }

func (c *UpdateDeliveryStatusCommand) setArea(area string) error {
	a, err := kernel.NewArea(area)
	if err != nil {
		return err
	}
	c.area = a
	return nil
}

func (c *UpdateDeliveryStatusCommand) setDeliveryID(id string) error {
	parsed, err := parseDeliveryID(id)
	if err != nil {
		return err
	}
	c.deliveryID = parsed
	return nil
}

func (c *UpdateDeliveryStatusCommand) setDriverEmail(email string) error {
	email, err := requireDriverEmail(email)
	if err != nil {
		return err
	}
	c.driverEmail = email
	return nil
}

func (c *UpdateDeliveryStatusCommand) setStatus(status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return errs.NewValueIsRequiredError("status")
	}
	parsed, err := delivery.ParseReportedStatus(status)
	if err != nil {
		return err
	}
	c.status = parsed
	return nil
}
