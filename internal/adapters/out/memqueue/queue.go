// Package memqueue is an in-process ports.DispatchQueue for local runs and
// tests. It keeps the lease semantics of the Redis queue: visibility
// timeouts, pop receipts that change on every hand-out, dequeue counts and
// message retention.
package memqueue

import (
	"context"
	"sort"
	"sync"
	"time"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"

	"github.com/google/uuid"
)

var _ ports.DispatchQueue = (*Queue)(nil)

type message struct {
	id           string
	body         []byte
	receipt      string
	dequeueCount int64
	insertedAt   time.Time
	visibleAt    time.Time
	expiresAt    time.Time
	seq          uint64
}

type Queue struct {
	mu         sync.Mutex
	clock      ports.Clock
	messageTTL time.Duration
	areas      map[string]map[string]*message
	seq        uint64
}

func New(clock ports.Clock, messageTTL time.Duration) *Queue {
	return &Queue{
		clock:      clock,
		messageTTL: messageTTL,
		areas:      make(map[string]map[string]*message),
	}
}

func (q *Queue) Send(ctx context.Context, area kernel.Area, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock.Now()
	q.seq++
	m := &message{
		id:         uuid.NewString(),
		body:       append([]byte(nil), body...),
		insertedAt: now,
		visibleAt:  now,
		expiresAt:  now.Add(q.messageTTL),
		seq:        q.seq,
	}

	msgs, ok := q.areas[area.String()]
	if !ok {
		msgs = make(map[string]*message)
		q.areas[area.String()] = msgs
	}
	msgs[m.id] = m
	return m.id, nil
}

func (q *Queue) Receive(
	ctx context.Context,
	area kernel.Area,
	maxMessages int,
	visibility time.Duration,
) ([]ports.QueueMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	maxMessages = clampBatch(maxMessages)

	q.mu.Lock()
	defer q.mu.Unlock()

	msgs := q.areas[area.String()]
	now := q.clock.Now()

	visible := make([]*message, 0, len(msgs))
	for id, m := range msgs {
		if !now.Before(m.expiresAt) {
			delete(msgs, id)
			continue
		}
		if !m.visibleAt.After(now) {
			visible = append(visible, m)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		if visible[i].visibleAt.Equal(visible[j].visibleAt) {
			return visible[i].seq < visible[j].seq
		}
		return visible[i].visibleAt.Before(visible[j].visibleAt)
	})
	if len(visible) > maxMessages {
		visible = visible[:maxMessages]
	}

	out := make([]ports.QueueMessage, 0, len(visible))
	for _, m := range visible {
		m.receipt = uuid.NewString()
		m.dequeueCount++
		m.visibleAt = now.Add(visibility)
		out = append(out, ports.QueueMessage{
			Lease:        ports.Lease{MessageID: m.id, PopReceipt: m.receipt},
			Body:         append([]byte(nil), m.body...),
			DequeueCount: m.dequeueCount,
			InsertedAt:   m.insertedAt,
		})
	}
	return out, nil
}

func (q *Queue) Delete(ctx context.Context, area kernel.Area, lease ports.Lease) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	msgs := q.areas[area.String()]
	m, ok := msgs[lease.MessageID]
	if !ok || m.receipt == "" || m.receipt != lease.PopReceipt {
		return errs.NewObjectNotFoundError("queue message", lease.MessageID)
	}
	delete(msgs, lease.MessageID)
	return nil
}

func (q *Queue) Ping(context.Context) error {
	return nil
}

// Len reports how many messages the area holds, hidden ones included.
func (q *Queue) Len(area kernel.Area) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.areas[area.String()])
}

func clampBatch(n int) int {
	if n < 1 {
		return 1
	}
	if n > ports.MaxReceiveBatch {
		return ports.MaxReceiveBatch
	}
	return n
}
