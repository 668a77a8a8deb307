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

type ClaimDeliveryResult struct {
	AssignedAt time.Time
}

// ClaimDeliveryCommandHandler assigns a pending delivery to the calling
// driver. Of several drivers claiming the same delivery exactly one wins;
// the others get errs.ConflictError.
//
// After the conditional write succeeds the order mirror and the queue
// message delete are best effort: their failures are logged, never returned.
type ClaimDeliveryCommandHandler struct {
	deliveries ports.DeliveryRepository
	orders     ports.OrderRepository
	queue      ports.DispatchQueue
	clock      ports.Clock
	metrics    *metrics.Metrics
	log        logger.ILogger
}

// NewClaimDeliveryCommandHandler creates a claim handler. The queue is only
// used to delete the lease of the winning claim.
func NewClaimDeliveryCommandHandler(
	deliveries ports.DeliveryRepository,
	orders ports.OrderRepository,
	queue ports.DispatchQueue,
	clock ports.Clock,
	m *metrics.Metrics,
	log logger.ILogger,
) ClaimDeliveryCommandHandler {
	return ClaimDeliveryCommandHandler{
		deliveries: deliveries,
		orders:     orders,
		queue:      queue,
		clock:      clock,
		metrics:    m,
		log:        log.With(logger.String("component", "claim_delivery")),
	}
}

// Handle assigns the delivery to cmd.DriverEmail() with an etag-conditional
// write. It returns errs.ConflictError when the delivery is no longer pending
// and errs.ObjectNotFoundError when it does not exist.
func (h ClaimDeliveryCommandHandler) Handle(ctx context.Context, cmd ClaimDeliveryCommand) (ClaimDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return ClaimDeliveryResult{}, err
	}

	now := h.clock.Now()
	d, err := changeDelivery(ctx, h.deliveries, cmd.Area(), cmd.DeliveryID(), func(d *delivery.Delivery) error {
		return d.Assign(cmd.DriverEmail(), now)
	})
	if err != nil {
		h.metrics.ClaimsTotal.WithLabelValues(claimResult(err)).Inc()
		return ClaimDeliveryResult{}, err
	}
	h.metrics.ClaimsTotal.WithLabelValues("won").Inc()

	fields := []logger.Field{
		logger.Stringer("deliveryId", d.ID()),
		logger.Stringer("orderId", d.OrderID()),
		logger.String("driverEmail", d.DriverEmail()),
	}
	h.log.Info("delivery claimed", fields...)

	if err = mirrorOrder(ctx, h.orders, d); err != nil {
		h.metrics.BestEffortFailuresTotal.WithLabelValues("order_mirror").Inc()
		h.log.Warn("failed to mirror claim onto order", append(fields, logger.Error(err))...)
	}

	if err = h.queue.Delete(ctx, d.Area(), cmd.Lease()); err != nil {
		h.metrics.BestEffortFailuresTotal.WithLabelValues("lease_delete").Inc()
		h.log.Warn("failed to delete claimed queue message",
			append(fields, logger.String("messageId", cmd.Lease().MessageID), logger.Error(err))...)
	}

	return ClaimDeliveryResult{AssignedAt: *d.AssignedAt()}, nil
}

func claimResult(err error) string {
	switch {
	case errors.Is(err, errs.ErrConflict):
		return "conflict"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	default:
		return "error"
	}
}
