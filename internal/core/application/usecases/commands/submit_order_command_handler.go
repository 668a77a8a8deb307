package commands

import (
	"context"
	"time"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/order"
	"bytebite/internal/core/domain/services"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"
)

type SubmitOrderResult struct {
	OrderID          kernel.UUID
	DeliveryID       kernel.UUID
	TotalPrice       float64
	EstimatedMinutes int
	CreatedAt        time.Time
}

// SubmitOrderCommandHandler persists the order, then its delivery, then
// announces the delivery on the area queue.
//
// A failed order write leaves nothing behind. A failed delivery write leaves
// the order without delivery. A failed announcement is logged and swallowed:
// the reconciliation job re-announces pending deliveries nobody heard of.
type SubmitOrderCommandHandler struct {
	orders     ports.OrderRepository
	deliveries ports.DeliveryRepository
	notifier   *DispatchNotifier
	dispatcher services.OrderDispatcher
	clock      ports.Clock
	metrics    *metrics.Metrics
	log        logger.ILogger
}

// NewSubmitOrderCommandHandler creates the order intake handler.
func NewSubmitOrderCommandHandler(
	orders ports.OrderRepository,
	deliveries ports.DeliveryRepository,
	notifier *DispatchNotifier,
	clock ports.Clock,
	m *metrics.Metrics,
	log logger.ILogger,
) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		orders:     orders,
		deliveries: deliveries,
		notifier:   notifier,
		dispatcher: services.NewOrderDispatcher(),
		clock:      clock,
		metrics:    m,
		log:        log.With(logger.String("component", "submit_order")),
	}
}

// Handle stores the order and its pending delivery, then announces the
// delivery to the drivers of the area. A failed announcement is logged and left
// to reconciliation; the order is still accepted.
func (h SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (SubmitOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return SubmitOrderResult{}, err
	}

	now := h.clock.Now()
	o, err := order.NewOrder(kernel.NewUUID(), cmd.Area(), cmd.Customer(), cmd.Lines(), now)
	if err != nil {
		return SubmitOrderResult{}, err
	}

	d, err := h.dispatcher.Dispatch(o, kernel.NewUUID(), now)
	if err != nil {
		return SubmitOrderResult{}, err
	}

	if err = h.orders.Add(ctx, o); err != nil {
		return SubmitOrderResult{}, err
	}

	if err = h.deliveries.Add(ctx, d); err != nil {
		h.log.Error("order stored without delivery",
			logger.Stringer("orderId", o.ID()),
			logger.Stringer("deliveryId", d.ID()),
			logger.Error(err),
		)
		return SubmitOrderResult{}, err
	}
	h.metrics.OrdersSubmittedTotal.Inc()

	if err = h.notifier.Notify(ctx, d, SourceSubmit); err != nil {
		h.log.Warn("dispatch notification not published",
			logger.Stringer("orderId", o.ID()),
			logger.Stringer("deliveryId", d.ID()),
			logger.Stringer("area", d.Area()),
			logger.Error(err),
		)
	}

	return SubmitOrderResult{
		OrderID:          o.ID(),
		DeliveryID:       d.ID(),
		TotalPrice:       o.TotalPrice(),
		EstimatedMinutes: d.EstimatedMinutes(),
		CreatedAt:        o.CreatedAt(),
	}, nil
}
