package delivery

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
)

const (
	// PickupMinutes is the fixed allowance for a driver to reach the restaurant.
	PickupMinutes = 10
	// TransitMinutes is the fixed allowance from restaurant to customer.
	TransitMinutes = 20
)

// ErrDeliveryIsNotConstructed is returned when a Delivery was not created via NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

// EstimateMinutes returns the delivery time estimate for the slowest meal of an order.
func EstimateMinutes(maxPrepTimeMinutes int) int {
	return maxPrepTimeMinutes + PickupMinutes + TransitMinutes
}

// Draft carries the values a new Delivery is created from. It is filled by the
// order dispatcher from a freshly submitted order.
type Draft struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	Area             kernel.Area
	CustomerName     string
	CustomerAddress  string
	RestaurantName   string
	TotalPrice       float64
	EstimatedMinutes int
	CreatedAt        time.Time
}

// Snapshot is the full persisted state of a Delivery. Repositories map it to
// and from their row types; Version is the store etag.
type Snapshot struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	Area             kernel.Area
	CustomerName     string
	CustomerAddress  string
	RestaurantName   string
	TotalPrice       float64
	EstimatedMinutes int
	Status           Status
	DriverEmail      string
	CreatedAt        time.Time
	AssignedAt       *time.Time
	PickedUpAt       *time.Time
	InTransitAt      *time.Time
	DeliveredAt      *time.Time
	NotifiedAt       *time.Time
	Version          int64
}

// Delivery is the aggregate a driver claims and reports progress on.
//
// Invariants:
//   - driverEmail is empty iff status is Pending
//   - once assigned, driverEmail never changes
//   - status only moves to its immediate successor
//   - every status after Pending has its timestamp stamped
type Delivery struct {
	id               kernel.UUID
	orderID          kernel.UUID
	area             kernel.Area
	customerName     string
	customerAddress  string
	restaurantName   string
	totalPrice       float64
	estimatedMinutes int
	status           Status
	driverEmail      string
	createdAt        time.Time
	assignedAt       *time.Time
	pickedUpAt       *time.Time
	inTransitAt      *time.Time
	deliveredAt      *time.Time
	notifiedAt       *time.Time
	version          int64
	isConstructed    bool
}

// NewDelivery creates a pending, unassigned delivery.
//
// Example:
//
//	d, err := delivery.NewDelivery(delivery.Draft{
//	    ID:               kernel.NewUUID(),
//	    OrderID:          o.ID(),
//	    Area:             o.Area(),
//	    CustomerName:     "Ann",
//	    CustomerAddress:  "1 Main St",
//	    RestaurantName:   "Pho 88",
//	    TotalPrice:       25,
//	    EstimatedMinutes: delivery.EstimateMinutes(15),
//	    CreatedAt:        now,
//	})
func NewDelivery(draft Draft) (*Delivery, error) {
	if err := errors.Join(
		draft.ID.Validate(),
		draft.OrderID.Validate(),
		draft.Area.Validate(),
		requireText("customerName", draft.CustomerName),
		requireText("customerAddress", draft.CustomerAddress),
		requireText("restaurantName", draft.RestaurantName),
		validateAmounts(draft.TotalPrice, draft.EstimatedMinutes),
		requireTime("createdAt", draft.CreatedAt),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:               draft.ID,
		orderID:          draft.OrderID,
		area:             draft.Area,
		customerName:     strings.TrimSpace(draft.CustomerName),
		customerAddress:  strings.TrimSpace(draft.CustomerAddress),
		restaurantName:   strings.TrimSpace(draft.RestaurantName),
		totalPrice:       draft.TotalPrice,
		estimatedMinutes: draft.EstimatedMinutes,
		status:           Pending,
		createdAt:        draft.CreatedAt.UTC(),
		isConstructed:    true,
	}, nil
}

// RestoreDelivery rebuilds a Delivery from persisted state and re-checks the
// status/driver invariant.
func RestoreDelivery(s Snapshot) (*Delivery, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.Area.Validate(),
		s.Status.Validate(),
		s.Status.ValidateCanHaveDriver(s.DriverEmail != ""),
	); err != nil {
		return nil, fmt.Errorf("restore delivery %s: %w", s.ID, err)
	}

	return &Delivery{
		id:               s.ID,
		orderID:          s.OrderID,
		area:             s.Area,
		customerName:     s.CustomerName,
		customerAddress:  s.CustomerAddress,
		restaurantName:   s.RestaurantName,
		totalPrice:       s.TotalPrice,
		estimatedMinutes: s.EstimatedMinutes,
		status:           s.Status,
		driverEmail:      s.DriverEmail,
		createdAt:        s.CreatedAt,
		assignedAt:       s.AssignedAt,
		pickedUpAt:       s.PickedUpAt,
		inTransitAt:      s.InTransitAt,
		deliveredAt:      s.DeliveredAt,
		notifiedAt:       s.NotifiedAt,
		version:          s.Version,
		isConstructed:    true,
	}, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// Snapshot exports the aggregate state for persistence.
func (d *Delivery) Snapshot() Snapshot {
	return Snapshot{
		ID:               d.id,
		OrderID:          d.orderID,
		Area:             d.area,
		CustomerName:     d.customerName,
		CustomerAddress:  d.customerAddress,
		RestaurantName:   d.restaurantName,
		TotalPrice:       d.totalPrice,
		EstimatedMinutes: d.estimatedMinutes,
		Status:           d.status,
		DriverEmail:      d.driverEmail,
		CreatedAt:        d.createdAt,
		AssignedAt:       d.assignedAt,
		PickedUpAt:       d.pickedUpAt,
		InTransitAt:      d.inTransitAt,
		DeliveredAt:      d.deliveredAt,
		NotifiedAt:       d.notifiedAt,
		Version:          d.version,
	}
}

func (d *Delivery) ID() kernel.UUID { return d.id }
func (d *Delivery) OrderID() kernel.UUID { return d.orderID }
func (d *Delivery) Area() kernel.Area { return d.area }
func (d *Delivery) CustomerName() string { return d.customerName }
func (d *Delivery) CustomerAddress() string { return d.customerAddress }
func (d *Delivery) RestaurantName() string { return d.restaurantName }
func (d *Delivery) TotalPrice() float64 { return d.totalPrice }
func (d *Delivery) EstimatedMinutes() int { return d.estimatedMinutes }
func (d *Delivery) Status() Status { return d.status }
func (d *Delivery) DriverEmail() string { return d.driverEmail }
func (d *Delivery) CreatedAt() time.Time { return d.createdAt }
func (d *Delivery) AssignedAt() *time.Time { return d.assignedAt }
func (d *Delivery) PickedUpAt() *time.Time { return d.pickedUpAt }
func (d *Delivery) InTransitAt() *time.Time { return d.inTransitAt }
func (d *Delivery) DeliveredAt() *time.Time { return d.deliveredAt }
func (d *Delivery) NotifiedAt() *time.Time { return d.notifiedAt }
func (d *Delivery) Version() int64 { return d.version }
func (d *Delivery) IsEqual(other *Delivery) bool { return other != nil && d.id.IsEqual(other.id) }

// SetVersion records the etag returned by a successful store write.
func (d *Delivery) SetVersion(version int64) {
	d.version = version
}

// IsDrivenBy reports whether driverEmail is the assigned driver. Emails compare case-insensitively.
func (d *Delivery) IsDrivenBy(driverEmail string) bool {
	return d.driverEmail != "" && strings.EqualFold(d.driverEmail, strings.TrimSpace(driverEmail))
}

// Assign hands a pending delivery to a driver.
//
// Returns a ConflictError when the delivery is no longer pending; the caller
// lost the race to another driver or the delivery already progressed.
func (d *Delivery) Assign(driverEmail string, at time.Time) error {
	driverEmail = strings.TrimSpace(driverEmail)
	if driverEmail == "" {
		return errs.NewValueIsRequiredError("driverEmail")
	}
	if d.status != Pending {
		return errs.NewConflictError("delivery", d.id.String(), fmt.Sprintf("is %s, not pending", d.status))
	}

	stamp := at.UTC()
	d.status = Assigned
	d.driverEmail = driverEmail
	d.assignedAt = &stamp
	return nil
}

// Advance moves the delivery to target on behalf of driverEmail.
//
// A caller who is not the assigned driver gets a ForbiddenError whatever the
// status. A target that is not the immediate successor is a validation error.
func (d *Delivery) Advance(driverEmail string, target Status, at time.Time) error {
	if !d.IsDrivenBy(driverEmail) {
		return errs.NewForbiddenError("delivery", d.id.String(), "is not assigned to "+driverEmail)
	}
	if err := d.status.ValidateAdvanceTo(target); err != nil {
		return err
	}

	stamp := at.UTC()
	switch target {
	case PickedUp:
		d.pickedUpAt = &stamp
	case InTransit:
		d.inTransitAt = &stamp
	case Delivered:
		d.deliveredAt = &stamp
	case Unknown, Pending, Assigned:
		return errs.NewValueIsInvalidError("status")
	}
	d.status = target
	return nil
}

// MarkNotified records that a dispatch notification was published at the given time.
func (d *Delivery) MarkNotified(at time.Time) {
	stamp := at.UTC()
	d.notifiedAt = &stamp
}

func requireText(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}

func requireTime(param string, value time.Time) error {
	if value.IsZero() {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}

func validateAmounts(totalPrice float64, estimatedMinutes int) error {
	var joined []error
	if totalPrice < 0 || math.IsNaN(totalPrice) || math.IsInf(totalPrice, 0) {
		joined = append(joined, errs.NewValueIsOutOfRangeError("totalPrice", totalPrice, 0, math.MaxFloat64))
	}
	if estimatedMinutes < PickupMinutes+TransitMinutes {
		joined = append(joined, errs.NewValueIsOutOfRangeError(
			"estimatedDeliveryTimeMinutes", estimatedMinutes, PickupMinutes+TransitMinutes, math.MaxInt32))
	}
	return errors.Join(joined...)
}
