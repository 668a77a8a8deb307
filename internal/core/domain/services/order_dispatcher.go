package services

import (
	"errors"
	"time"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/order"
)

// ErrOrderIsNotDispatchable is returned for an order that already left the pending state.
var ErrOrderIsNotDispatchable = errors.New("only pending orders can be dispatched")

// OrderDispatcher turns an order into the delivery drivers compete for.
//
// Business rules:
//   - The delivery goes to the restaurant of the first order line
//   - The estimate is the slowest meal's prep time plus pickup and transit allowances
//   - The delivery starts pending, without driver
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher()
//	d, err := dispatcher.Dispatch(o, kernel.NewUUID(), clock.Now())
//	if err != nil {
//	    return err
//	}
//	// persist o, then d, then notify the area queue
type OrderDispatcher struct{}

func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// Dispatch builds the delivery for o with the given id and creation time.
// The order itself is not modified.
func (OrderDispatcher) Dispatch(o *order.Order, deliveryID kernel.UUID, now time.Time) (*delivery.Delivery, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != delivery.Pending {
		return nil, ErrOrderIsNotDispatchable
	}

	return delivery.NewDelivery(delivery.Draft{
		ID:               deliveryID,
		OrderID:          o.ID(),
		Area:             o.Area(),
		CustomerName:     o.Customer().Name(),
		CustomerAddress:  o.Customer().Address(),
		RestaurantName:   o.FirstRestaurantName(),
		TotalPrice:       o.TotalPrice(),
		EstimatedMinutes: delivery.EstimateMinutes(order.MaxPrepTimeMinutes(o.Lines())),
		CreatedAt:        now,
	})
}
