package commands

import (
	"context"
	"errors"
	"fmt"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"
)

// Notification sources, used as metric label.
const (
	SourceSubmit    = "submit"
	SourceReconcile = "reconcile"
)

// DispatchNotifier announces a pending delivery on its area queue and
// records the announcement on the delivery (notifiedAt).
type DispatchNotifier struct {
	queue      ports.DispatchQueue
	deliveries ports.DeliveryRepository
	clock      ports.Clock
	metrics    *metrics.Metrics
	log        logger.ILogger
}

func NewDispatchNotifier(
	queue ports.DispatchQueue,
	deliveries ports.DeliveryRepository,
	clock ports.Clock,
	m *metrics.Metrics,
	log logger.ILogger,
) *DispatchNotifier {
	return &DispatchNotifier{
		queue:      queue,
		deliveries: deliveries,
		clock:      clock,
		metrics:    m,
		log:        log.With(logger.String("component", "dispatch_notifier")),
	}
}

// Notify publishes d and stamps its notifiedAt. Only a failed publish is
// returned. The stamp is a conditional update: if the delivery changed in
// the meantime (typically claimed) the stamp is dropped.
func (n *DispatchNotifier) Notify(ctx context.Context, d *delivery.Delivery, source string) error {
	now := n.clock.Now()

	body, err := delivery.NewNotification(d, now).Encode()
	if err != nil {
		return fmt.Errorf("encode notification for delivery %s: %w", d.ID(), err)
	}

	messageID, err := n.queue.Send(ctx, d.Area(), body)
	if err != nil {
		n.metrics.NotificationsPublished.WithLabelValues(source, "failed").Inc()
		return fmt.Errorf("publish notification for delivery %s: %w", d.ID(), err)
	}
	n.metrics.NotificationsPublished.WithLabelValues(source, "ok").Inc()

	d.MarkNotified(now)
	err = n.deliveries.Update(ctx, d)
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrVersionIsInvalid):
		n.log.Debug("delivery changed before notification stamp",
			logger.Stringer("deliveryId", d.ID()),
			logger.String("messageId", messageID),
		)
	default:
		n.metrics.BestEffortFailuresTotal.WithLabelValues("notify_stamp").Inc()
		n.log.Warn("failed to stamp notification time",
			logger.Stringer("deliveryId", d.ID()),
			logger.String("messageId", messageID),
			logger.Error(err),
		)
	}
	return nil
}
