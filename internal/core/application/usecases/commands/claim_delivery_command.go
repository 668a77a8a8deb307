package commands

import (
	"errors"
	"strings"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/guard"
)

var ErrClaimDeliveryCommandIsNotConstructed = errors.New(
	"ClaimDeliveryCommand must be created via NewClaimDeliveryCommand constructor",
)

// ClaimDeliveryCommand is a driver accepting a candidate handed out by a
// poll. The lease (message id and pop receipt) comes from that poll.
type ClaimDeliveryCommand struct {
	area        kernel.Area
	deliveryID  kernel.UUID
	driverEmail string
	lease       ports.Lease

	guard guard.ConstructorGuard
}

func NewClaimDeliveryCommand(
	area, deliveryID, driverEmail, messageID, popReceipt string,
) (ClaimDeliveryCommand, error) {
	cmd := ClaimDeliveryCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setArea(area),
		cmd.setDeliveryID(deliveryID),
		cmd.setDriverEmail(driverEmail),
		cmd.setLease(messageID, popReceipt),
	); err != nil {
		return ClaimDeliveryCommand{}, err
	}
	return cmd, nil
}

func (c ClaimDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrClaimDeliveryCommandIsNotConstructed)
}

func (c ClaimDeliveryCommand) Area() kernel.Area { return c.area }
func (c ClaimDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c ClaimDeliveryCommand) DriverEmail() string { return c.driverEmail }
func (c ClaimDeliveryCommand) Lease() ports.Lease { return c.lease }

func (c *ClaimDeliveryCommand) setArea(area string) error {
	a, err := kernel.NewArea(area)
	if err != nil {
		return err
	}
	c.area = a
	return nil
}

func (c *ClaimDeliveryCommand) setDeliveryID(id string) error {
	parsed, err := parseDeliveryID(id)
	if err != nil {
		return err
	}
	c.deliveryID = parsed
	return nil
}

func (c *ClaimDeliveryCommand) setDriverEmail(email string) error {
	email, err := requireDriverEmail(email)
	if err != nil {
		return err
	}
	c.driverEmail = email
	return nil
}

func (c *ClaimDeliveryCommand) setLease(messageID, popReceipt string) error {
	messageID = strings.TrimSpace(messageID)
	popReceipt = strings.TrimSpace(popReceipt)

	var joined []error
	if messageID == "" {
		joined = append(joined, errs.NewValueIsRequiredError("messageId"))
	}
	if popReceipt == "" {
		joined = append(joined, errs.NewValueIsRequiredError("popReceipt"))
	}
	if err := errors.Join(joined...); err != nil {
		return err
	}

	c.lease = ports.Lease{MessageID: messageID, PopReceipt: popReceipt}
	return nil
}

func parseDeliveryID(id string) (kernel.UUID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("deliveryId")
	}
	parsed, err := kernel.UUIDFromString(id)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("deliveryId", err)
	}
	return parsed, nil
}

func requireDriverEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errs.NewValueIsRequiredError("driverEmail")
	}
	return email, nil
}
