package queries

import (
	"context"
	"errors"
	"time"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"
)

// DefaultVisibilityTimeout is how long a polled candidate stays hidden from
// other drivers before it reappears in the queue.
const DefaultVisibilityTimeout = 30 * time.Second

// CheckDeliveryQueueQueryHandler turns queue messages into claimable
// candidates. Messages whose delivery is gone, no longer pending, already
// listed in this poll, or whose body cannot be decoded are deleted and left
// out. Those deletes are best effort.
type CheckDeliveryQueueQueryHandler struct {
	queue      ports.DispatchQueue
	deliveries ports.DeliveryRepository
	visibility time.Duration
	metrics    *metrics.Metrics
	log        logger.ILogger
}

// NewCheckDeliveryQueueQueryHandler creates the poll handler. A non-positive
// visibility falls back to DefaultVisibilityTimeout.
func NewCheckDeliveryQueueQueryHandler(
	queue ports.DispatchQueue,
	deliveries ports.DeliveryRepository,
	visibility time.Duration,
	m *metrics.Metrics,
	log logger.ILogger,
) CheckDeliveryQueueQueryHandler {
	if visibility <= 0 {
		visibility = DefaultVisibilityTimeout
	}
	return CheckDeliveryQueueQueryHandler{
		queue:      queue,
		deliveries: deliveries,
		visibility: visibility,
		metrics:    m,
		log:        log.With(logger.String("component", "check_delivery_queue")),
	}
}

// Handle receives up to query.Limit() messages. A store read failure aborts
// the poll with that error; the leases taken so far simply expire. A delivery
// row that no longer decodes only costs its own message, which is left to
// reappear after the visibility timeout.
func (h CheckDeliveryQueueQueryHandler) Handle(
	ctx context.Context,
	query CheckDeliveryQueueQuery,
) ([]DeliveryCandidate, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	msgs, err := h.queue.Receive(ctx, query.Area(), query.Limit(), h.visibility)
	if err != nil {
		return nil, errs.NewPersistenceError("receive from dispatch queue", err)
	}

	candidates := make([]DeliveryCandidate, 0, len(msgs))
	seen := make(map[kernel.UUID]struct{}, len(msgs))
	for _, msg := range msgs {
		d, err := h.resolve(ctx, query.Area(), msg)
		if errors.Is(err, errs.ErrCorruptRecord) {
			h.log.Warn("skipping message of a corrupt delivery row",
				logger.String("messageId", msg.Lease.MessageID), logger.Error(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		if d == nil {
			h.drop(ctx, query.Area(), msg, "delivery is gone or undecodable")
			continue
		}
		if d.Status() != delivery.Pending {
			h.drop(ctx, query.Area(), msg, "delivery is "+d.Status().String())
			continue
		}
		if _, dup := seen[d.ID()]; dup {
			h.drop(ctx, query.Area(), msg, "duplicate announcement")
			continue
		}
		seen[d.ID()] = struct{}{}

		candidates = append(candidates, DeliveryCandidate{
			DeliveryView: NewDeliveryView(d),
			MessageID:    msg.Lease.MessageID,
			PopReceipt:   msg.Lease.PopReceipt,
			DequeueCount: msg.DequeueCount,
		})
	}

	h.metrics.CandidatesReturnedTotal.Add(float64(len(candidates)))
	h.log.Debug("poll served",
		logger.Stringer("area", query.Area()),
		logger.String("driverEmail", query.DriverEmail()),
		logger.Int("received", len(msgs)),
		logger.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// resolve returns the delivery a message announces, nil when there is none.
func (h CheckDeliveryQueueQueryHandler) resolve(
	ctx context.Context,
	area kernel.Area,
	msg ports.QueueMessage,
) (*delivery.Delivery, error) {
	n, err := delivery.DecodeNotification(msg.Body)
	if err != nil {
		h.log.Warn("undecodable dispatch message",
			logger.String("messageId", msg.Lease.MessageID), logger.Error(err))
		return nil, nil
	}
	id, err := n.ParsedDeliveryID()
	if err != nil {
		return nil, nil
	}

	d, err := h.deliveries.Get(ctx, area, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (h CheckDeliveryQueueQueryHandler) drop(ctx context.Context, area kernel.Area, msg ports.QueueMessage, reason string) {
	h.metrics.StaleMessagesDeletedTotal.Inc()
	if err := h.queue.Delete(ctx, area, msg.Lease); err != nil {
		h.metrics.BestEffortFailuresTotal.WithLabelValues("stale_delete").Inc()
		h.log.Warn("failed to delete stale dispatch message",
			logger.String("messageId", msg.Lease.MessageID),
			logger.String("reason", reason),
			logger.Error(err),
		)
		return
	}
	h.log.Debug("stale dispatch message deleted",
		logger.String("messageId", msg.Lease.MessageID),
		logger.String("reason", reason),
	)
}
