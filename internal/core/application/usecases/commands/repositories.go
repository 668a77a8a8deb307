// Package commands contains the operations that change state: order intake,
// the claim and status steps of the dispatch protocol, reconciliation of
// unannounced deliveries, and menu registration.
//
// Handlers reach the entity store only through ports repositories. There is
// no transaction spanning an order and its delivery: the delivery row is the
// source of truth and the order mirrors it on a best-effort basis.
package commands

import (
	"context"
	"errors"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"
)

// maxWriteAttempts bounds the read-modify-write loop on a delivery whose
// etag moved under us (for instance a notification stamp).
const maxWriteAttempts = 3

// changeDelivery loads the delivery, applies change and writes it back with
// an etag-conditional update. A stale etag triggers a fresh read, so change
// is re-evaluated against the latest state: a second claimer then fails in
// change itself. Running out of attempts is reported as errs.ConflictError.
func changeDelivery(
	ctx context.Context,
	deliveries ports.DeliveryRepository,
	area kernel.Area,
	id kernel.UUID,
	change func(d *delivery.Delivery) error,
) (*delivery.Delivery, error) {
	for attempt := 1; ; attempt++ {
		d, err := deliveries.Get(ctx, area, id)
		if err != nil {
			return nil, err
		}
		if err = change(d); err != nil {
			return nil, err
		}

		err = deliveries.Update(ctx, d)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return nil, err
		}
		if attempt == maxWriteAttempts {
			return nil, errs.NewConflictErrorWithCause("delivery", id.String(), "was modified concurrently", err)
		}
	}
}

// mirrorOrder copies status and driver of d onto its order. The order is
// left untouched when it already mirrors d or a later state of it.
func mirrorOrder(ctx context.Context, orders ports.OrderRepository, d *delivery.Delivery) error {
	o, err := orders.Get(ctx, d.Area(), d.OrderID())
	if err != nil {
		return err
	}
	if !o.IsBehind(d) {
		return nil
	}
	if err = o.MirrorDelivery(d); err != nil {
		return err
	}
	return orders.Update(ctx, o)
}
