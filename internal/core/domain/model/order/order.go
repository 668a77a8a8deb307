package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created via NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrOrderHasNoLines is returned for a checkout without meals.
	ErrOrderHasNoLines = errs.NewValueIsRequiredError("meals")
)

// Snapshot is the persisted state of an Order.
type Snapshot struct {
	ID          kernel.UUID
	Area        kernel.Area
	Customer    Customer
	Lines       []Line
	TotalPrice  float64
	Status      delivery.Status
	DriverEmail string
	CreatedAt   time.Time
	Version     int64
}

// Order is the aggregate root of a checkout.
//
// Order follows these invariants:
//   - It has at least one line
//   - totalPrice is the sum of line subtotals, rounded to cents
//   - status and driverEmail only change by mirroring the delivery
type Order struct {
	id            kernel.UUID
	area          kernel.Area
	customer      Customer
	lines         []Line
	totalPrice    float64
	status        delivery.Status
	driverEmail   string
	createdAt     time.Time
	version       int64
	isConstructed bool
}

// NewOrder creates a pending order and computes its total.
//
// Example:
//
//	customer, _ := order.NewCustomer("Ann", "1 Main St", "")
//	line, _ := order.NewLine(order.MealRef{DishName: "Pho", RestaurantName: "Pho 88"}, 2, 10, 15)
//	o, err := order.NewOrder(kernel.NewUUID(), kernel.MustNewArea("downtown"), customer, []order.Line{line}, now)
func NewOrder(id kernel.UUID, area kernel.Area, customer Customer, lines []Line, createdAt time.Time) (*Order, error) {
	var joined []error
	joined = append(joined, id.Validate(), area.Validate())
	if customer.name == "" || customer.address == "" {
		joined = append(joined, errs.NewValueIsRequiredError("customer"))
	}
	if len(lines) == 0 {
		joined = append(joined, ErrOrderHasNoLines)
	}
	if createdAt.IsZero() {
		joined = append(joined, errs.NewValueIsRequiredError("createdAt"))
	}
	if err := errors.Join(joined...); err != nil {
		return nil, err
	}

	copied := make([]Line, len(lines))
	copy(copied, lines)

	return &Order{
		id:            id,
		area:          area,
		customer:      customer,
		lines:         copied,
		totalPrice:    Total(copied),
		status:        delivery.Pending,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreOrder rebuilds an Order from persisted state.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.Area.Validate(),
		s.Status.Validate(),
		s.Status.ValidateCanHaveDriver(s.DriverEmail != ""),
	); err != nil {
		return nil, fmt.Errorf("restore order %s: %w", s.ID, err)
	}

	return &Order{
		id:            s.ID,
		area:          s.Area,
		customer:      s.Customer,
		lines:         s.Lines,
		totalPrice:    s.TotalPrice,
		status:        s.Status,
		driverEmail:   s.DriverEmail,
		createdAt:     s.CreatedAt,
		version:       s.Version,
		isConstructed: true,
	}, nil
}

// Total sums price·quantity over lines, rounded to cents.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return math.Round(total*100) / 100
}

// MaxPrepTimeMinutes returns the prep time of the slowest line.
func MaxPrepTimeMinutes(lines []Line) int {
	maxPrep := 0
	for _, l := range lines {
		maxPrep = max(maxPrep, l.prepTimeMinutes)
	}
	return maxPrep
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) Snapshot() Snapshot {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return Snapshot{
		ID:          o.id,
		Area:        o.area,
		Customer:    o.customer,
		Lines:       lines,
		TotalPrice:  o.totalPrice,
		Status:      o.status,
		DriverEmail: o.driverEmail,
		CreatedAt:   o.createdAt,
		Version:     o.version,
	}
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) Area() kernel.Area { return o.area }
func (o *Order) Customer() Customer { return o.customer }
func (o *Order) TotalPrice() float64 { return o.totalPrice }
func (o *Order) Status() delivery.Status { return o.status }
func (o *Order) DriverEmail() string { return o.driverEmail }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) Version() int64 { return o.version }

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// FirstRestaurantName is the restaurant of the first line. Multi-restaurant
// orders are dispatched to that restaurant only.
func (o *Order) FirstRestaurantName() string {
	if len(o.lines) == 0 {
		return ""
	}
	return o.lines[0].RestaurantName()
}

// SetVersion records the etag returned by a successful store write.
func (o *Order) SetVersion(version int64) {
	o.version = version
}

// MirrorDelivery copies status and driver from the delivery created for this order.
// A delivery snapshot that is not ahead of the order is ignored, so a late
// mirror never moves the order status backwards.
func (o *Order) MirrorDelivery(d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if !d.OrderID().IsEqual(o.id) {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery",
			fmt.Errorf("delivery %s belongs to order %s, not %s", d.ID(), d.OrderID(), o.id),
		)
	}
	if !o.IsBehind(d) {
		return nil
	}
	o.status = d.Status()
	o.driverEmail = strings.TrimSpace(d.DriverEmail())
	return nil
}

// IsBehind reports whether d is further along its lifecycle than the order.
func (o *Order) IsBehind(d *delivery.Delivery) bool {
	return d.Status() > o.status
}
