package commands

import (
	"errors"
	"time"

	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/guard"
)

// MaxReconcileBatch caps how many deliveries one reconciliation run re-announces.
const MaxReconcileBatch = 500

var ErrReconcilePendingDeliveriesCommandIsNotConstructed = errors.New(
	"ReconcilePendingDeliveriesCommand must be created via NewReconcilePendingDeliveriesCommand constructor",
)

// ReconcilePendingDeliveriesCommand re-announces pending deliveries that were
// created more than staleAfter ago and not announced within staleAfter.
type ReconcilePendingDeliveriesCommand struct {
	staleAfter time.Duration
	batch      int

	guard guard.ConstructorGuard
}

func NewReconcilePendingDeliveriesCommand(staleAfter time.Duration, batch int) (ReconcilePendingDeliveriesCommand, error) {
	var joined []error
	if staleAfter <= 0 {
		joined = append(joined, errs.NewValueIsOutOfRangeError("staleAfter", staleAfter, "1ns", "unbounded"))
	}
	if batch < 1 || batch > MaxReconcileBatch {
		joined = append(joined, errs.NewValueIsOutOfRangeError("batch", batch, 1, MaxReconcileBatch))
	}
	if err := errors.Join(joined...); err != nil {
		return ReconcilePendingDeliveriesCommand{}, err
	}

	return ReconcilePendingDeliveriesCommand{
		staleAfter: staleAfter,
		batch:      batch,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcilePendingDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePendingDeliveriesCommandIsNotConstructed)
}

func (c ReconcilePendingDeliveriesCommand) StaleAfter() time.Duration {
	return c.staleAfter
}

func (c ReconcilePendingDeliveriesCommand) Batch() int {
	return c.batch
}
