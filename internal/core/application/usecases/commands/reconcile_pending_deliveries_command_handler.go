package commands

import (
	"context"

	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/logger"
)

type ReconcileResult struct {
	Scanned     int
	Republished int
	Failed      int
}

// ReconcilePendingDeliveriesCommandHandler is the fallback for announcements
// lost after a delivery was stored. A delivery claimed between the scan and
// the stamp keeps its claim; the extra queue message it may leave behind is
// dropped by the next poll.
type ReconcilePendingDeliveriesCommandHandler struct {
	deliveries ports.DeliveryRepository
	notifier   *DispatchNotifier
	clock      ports.Clock
	log        logger.ILogger
}

// NewReconcilePendingDeliveriesCommandHandler creates the handler behind the
// reconcile job.
func NewReconcilePendingDeliveriesCommandHandler(
	deliveries ports.DeliveryRepository,
	notifier *DispatchNotifier,
	clock ports.Clock,
	log logger.ILogger,
) ReconcilePendingDeliveriesCommandHandler {
	return ReconcilePendingDeliveriesCommandHandler{
		deliveries: deliveries,
		notifier:   notifier,
		clock:      clock,
		log:        log.With(logger.String("component", "reconcile")),
	}
}

// Handle re-announces up to cmd.Batch() pending deliveries that were never
// stamped as notified, or stamped before the stale cutoff. A failed
// announcement is counted in ReconcileResult.Failed and does not stop the run.
func (h ReconcilePendingDeliveriesCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcilePendingDeliveriesCommand,
) (ReconcileResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	cutoff := h.clock.Now().Add(-cmd.StaleAfter())
	pending, err := h.deliveries.ListPendingNotNotifiedSince(ctx, cutoff, cmd.Batch())
	if err != nil {
		return ReconcileResult{}, err
	}

	res := ReconcileResult{Scanned: len(pending)}
	for _, d := range pending {
		if err = ctx.Err(); err != nil {
			return res, err
		}
		if err = h.notifier.Notify(ctx, d, SourceReconcile); err != nil {
			res.Failed++
			h.log.Warn("re-announcement failed",
				logger.Stringer("deliveryId", d.ID()),
				logger.Stringer("area", d.Area()),
				logger.Error(err),
			)
			continue
		}
		res.Republished++
	}
	return res, nil
}
