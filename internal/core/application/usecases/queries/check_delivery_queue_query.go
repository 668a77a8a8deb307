package queries

import (
	"errors"
	"strings"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/guard"
)

// DefaultPollLimit is used when a poll does not say how many candidates it wants.
const DefaultPollLimit = 5

var ErrCheckDeliveryQueueQueryIsNotConstructed = errors.New(
	"CheckDeliveryQueueQuery must be created via NewCheckDeliveryQueueQuery constructor",
)

// CheckDeliveryQueueQuery is a driver polling an area for deliveries to
// claim. Polling leases queue messages but never changes a delivery.
//
// Example:
//
//	query, err := NewCheckDeliveryQueueQuery("downtown", "a@x.io", 0) // limit 0 means DefaultPollLimit
//	if err != nil {
//	    return err
//	}
//	candidates, err := handler.Handle(ctx, query)
type CheckDeliveryQueueQuery struct {
	area        kernel.Area
	driverEmail string
	limit       int

	guard guard.ConstructorGuard
}

// NewCheckDeliveryQueueQuery validates the poll. driverEmail is optional and
// only used for logging. A limit of 0 means DefaultPollLimit, a limit above
// ports.MaxReceiveBatch is clamped.
func NewCheckDeliveryQueueQuery(area, driverEmail string, limit int) (CheckDeliveryQueueQuery, error) {
	a, err := kernel.NewArea(area)
	if err != nil {
		return CheckDeliveryQueueQuery{}, err
	}

	switch {
	case limit < 0:
		return CheckDeliveryQueueQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, ports.MaxReceiveBatch)
	case limit == 0:
		limit = DefaultPollLimit
	case limit > ports.MaxReceiveBatch:
		limit = ports.MaxReceiveBatch
	}

	return CheckDeliveryQueueQuery{
		area:        a,
		driverEmail: strings.TrimSpace(driverEmail),
		limit:       limit,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q CheckDeliveryQueueQuery) Validate() error {
	return q.guard.Validate(ErrCheckDeliveryQueueQueryIsNotConstructed)
}

func (q CheckDeliveryQueueQuery) Area() kernel.Area { return q.area }
func (q CheckDeliveryQueueQuery) DriverEmail() string { return q.driverEmail }
func (q CheckDeliveryQueueQuery) Limit() int { return q.limit }

// DeliveryCandidate is a pending delivery together with the lease a claim must present.
type DeliveryCandidate struct {
	DeliveryView
	MessageID    string
	PopReceipt   string
	DequeueCount int64
}
