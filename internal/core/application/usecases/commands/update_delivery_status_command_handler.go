package commands

import (
	"context"
	"errors"
	"time"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"
)

type UpdateDeliveryStatusResult struct {
	Status delivery.Status
	At     time.Time
}

// UpdateDeliveryStatusCommandHandler advances a delivery one step on behalf
// of its driver.
//
// Errors:
//   - errs.ObjectNotFoundError: no such delivery in the area
//   - errs.ForbiddenError: the caller is not the assigned driver, whatever the status
//   - errs.ValueIsInvalidError: the target is not the immediate successor
//   - errs.ConflictError: the delivery kept changing under the write
type UpdateDeliveryStatusCommandHandler struct {
	deliveries ports.DeliveryRepository
	orders     ports.OrderRepository
	clock      ports.Clock
	metrics    *metrics.Metrics
	log        logger.ILogger
}

// NewUpdateDeliveryStatusCommandHandler creates a handler for driver status reports.
func NewUpdateDeliveryStatusCommandHandler(
	deliveries ports.DeliveryRepository,
	orders ports.OrderRepository,
	clock ports.Clock,
	m *metrics.Metrics,
	log logger.ILogger,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		deliveries: deliveries,
		orders:     orders,
		clock:      clock,
		metrics:    m,
		log:        log.With(logger.String("component", "update_delivery_status")),
	}
}

// Handle moves the delivery one step along its lifecycle on behalf of the
// assigned driver. Any other caller gets errs.ForbiddenError; skipping or
// repeating a step is errs.ValueIsInvalidError.
func (h UpdateDeliveryStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateDeliveryStatusCommand,
) (UpdateDeliveryStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateDeliveryStatusResult{}, err
	}

	now := h.clock.Now()
	d, err := changeDelivery(ctx, h.deliveries, cmd.Area(), cmd.DeliveryID(), func(d *delivery.Delivery) error {
		return d.Advance(cmd.DriverEmail(), cmd.Status(), now)
	})
	if err != nil {
		h.metrics.StatusUpdatesTotal.WithLabelValues(cmd.Status().String(), statusUpdateResult(err)).Inc()
		return UpdateDeliveryStatusResult{}, err
	}
	h.metrics.StatusUpdatesTotal.WithLabelValues(cmd.Status().String(), "ok").Inc()

	if err = mirrorOrder(ctx, h.orders, d); err != nil {
		h.metrics.BestEffortFailuresTotal.WithLabelValues("order_mirror").Inc()
		h.log.Warn("failed to mirror status onto order",
			logger.Stringer("deliveryId", d.ID()),
			logger.Stringer("orderId", d.OrderID()),
			logger.Stringer("status", d.Status()),
			logger.Error(err),
		)
	}

	return UpdateDeliveryStatusResult{Status: d.Status(), At: now.UTC()}, nil
}

func statusUpdateResult(err error) string {
	switch {
	case errors.Is(err, errs.ErrForbidden):
		return "forbidden"
	case errs.IsValidation(err):
		return "invalid"
	case errors.Is(err, errs.ErrConflict):
		return "conflict"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	default:
		return "error"
	}
}
