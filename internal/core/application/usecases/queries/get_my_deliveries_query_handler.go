package queries

import (
	"context"

	"bytebite/internal/core/ports"
)

type GetMyDeliveriesQueryHandler struct {
	deliveries ports.DeliveryRepository
}

// NewGetMyDeliveriesQueryHandler creates a handler for a driver's delivery history.
func NewGetMyDeliveriesQueryHandler(deliveries ports.DeliveryRepository) GetMyDeliveriesQueryHandler {
	return GetMyDeliveriesQueryHandler{deliveries: deliveries}
}

// Handle returns the driver's deliveries, most recently assigned first.
func (h GetMyDeliveriesQueryHandler) Handle(ctx context.Context, query GetMyDeliveriesQuery) ([]DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	found, err := h.deliveries.ListByDriver(ctx, query.DriverEmail())
	if err != nil {
		return nil, err
	}

	views := make([]DeliveryView, 0, len(found))
	for _, d := range found {
		views = append(views, NewDeliveryView(d))
	}
	return views, nil
}
