package ports

import (
	"context"
	"time"

	"bytebite/internal/core/domain/model/kernel"
)

// MaxReceiveBatch is the largest number of messages one Receive call hands out.
const MaxReceiveBatch = 32

// Lease identifies one hand-out of a queue message. The pop receipt changes
// every time the message is received, so an expired lease cannot delete a
// message someone else received since.
type Lease struct {
	MessageID  string
	PopReceipt string
}

// QueueMessage is a message handed out by Receive.
type QueueMessage struct {
	Lease        Lease
	Body         []byte
	DequeueCount int64
	InsertedAt   time.Time
}

// DispatchQueue is one message queue per delivery area with visibility-timeout leases.
type DispatchQueue interface {
	// Send enqueues body to the area queue and returns the message id.
	Send(ctx context.Context, area kernel.Area, body []byte) (string, error)

	// Receive hands out up to maxMessages visible messages (clamped to
	// MaxReceiveBatch) and hides them for visibility.
	Receive(ctx context.Context, area kernel.Area, maxMessages int, visibility time.Duration) ([]QueueMessage, error)

	// Delete removes a message. A stale pop receipt or an already deleted
	// message yields errs.ErrObjectNotFound.
	Delete(ctx context.Context, area kernel.Area, lease Lease) error

	Ping(ctx context.Context) error
}
