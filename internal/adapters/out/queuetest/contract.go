// Package queuetest holds the behaviour every ports.DispatchQueue
// implementation must show, so the in-process and Redis queues are checked
// against the same cases.
package queuetest

import (
	"sync"
	"testing"
	"time"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Clock is a manually advanced ports.Clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Factory returns an empty queue reading time from clock. messageTTL is the
// retention of a message that is never deleted.
type Factory func(t *testing.T, clock ports.Clock, messageTTL time.Duration) ports.DispatchQueue

// Run exercises q through the DispatchQueue contract.
func Run(t *testing.T, newQueue Factory) {
	start := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	const ttl = 24 * time.Hour
	downtown := kernel.MustNewArea("downtown")
	uptown := kernel.MustNewArea("uptown")

	t.Run("receive hands out sent messages and hides them", func(t *testing.T) {
		clock := NewClock(start)
		q := newQueue(t, clock, ttl)

		id, err := q.Send(t.Context(), downtown, []byte(`{"n":1}`))
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := q.Receive(t.Context(), downtown, 5, 30*time.Second)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, id, got[0].Lease.MessageID)
		assert.NotEmpty(t, got[0].Lease.PopReceipt)
		assert.Equal(t, []byte(`{"n":1}`), got[0].Body)
		assert.Equal(t, int64(1), got[0].DequeueCount)
		assert.True(t, got[0].InsertedAt.Equal(start))

		again, err := q.Receive(t.Context(), downtown, 5, 30*time.Second)
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("areas are separate queues", func(t *testing.T) {
		clock := NewClock(start)
		q := newQueue(t, clock, ttl)

		_, err := q.Send(t.Context(), downtown, []byte("a"))
		require.NoError(t, err)

		got, err := q.Receive(t.Context(), uptown, 5, 30*time.Second)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("expired lease makes the message visible with a new receipt", func(t *testing.T) {
		clock := NewClock(start)
		q := newQueue(t, clock, ttl)

		_, err := q.Send(t.Context(), downtown, []byte("a"))
		require.NoError(t, err)
		first, err := q.Receive(t.Context(), downtown, 1, 30*time.Second)
		require.NoError(t, err)
		require.Len(t, first, 1)

		clock.Advance(31 * time.Second)

		second, err := q.Receive(t.Context(), downtown, 1, 30*time.Second)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, first[0].Lease.MessageID, second[0].Lease.MessageID)
		assert.NotEqual(t, first[0].Lease.PopReceipt, second[0].Lease.PopReceipt)
		assert.Equal(t, int64(2), second[0].DequeueCount)

		err = q.Delete(t.Context(), downtown, first[0].Lease)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		require.NoError(t, q.Delete(t.Context(), downtown, second[0].Lease))
		err = q.Delete(t.Context(), downtown, second[0].Lease)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		clock.Advance(time.Minute)
		rest, err := q.Receive(t.Context(), downtown, 5, 30*time.Second)
		require.NoError(t, err)
		assert.Empty(t, rest)
	})

	t.Run("receive is limited and oldest first", func(t *testing.T) {
		clock := NewClock(start)
		q := newQueue(t, clock, ttl)

		var ids []string
		for range 40 {
			id, err := q.Send(t.Context(), downtown, []byte("m"))
			require.NoError(t, err)
			ids = append(ids, id)
			clock.Advance(time.Millisecond)
		}

		got, err := q.Receive(t.Context(), downtown, 2, 30*time.Second)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[0], got[0].Lease.MessageID)
		assert.Equal(t, ids[1], got[1].Lease.MessageID)

		got, err = q.Receive(t.Context(), downtown, 100, 30*time.Second)
		require.NoError(t, err)
		assert.Len(t, got, ports.MaxReceiveBatch)
	})

	t.Run("non positive limit receives one", func(t *testing.T) {
		clock := NewClock(start)
		q := newQueue(t, clock, ttl)
		for range 3 {
			_, err := q.Send(t.Context(), downtown, []byte("m"))
			require.NoError(t, err)
		}

		got, err := q.Receive(t.Context(), downtown, 0, 30*time.Second)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("messages past their retention are dropped", func(t *testing.T) {
		clock := NewClock(start)
		q := newQueue(t, clock, ttl)

		_, err := q.Send(t.Context(), downtown, []byte("old"))
		require.NoError(t, err)
		clock.Advance(ttl + time.Second)

		got, err := q.Receive(t.Context(), downtown, 5, 30*time.Second)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("concurrent receivers never share a message", func(t *testing.T) {
		clock := NewClock(start)
		q := newQueue(t, clock, ttl)
		for range 20 {
			_, err := q.Send(t.Context(), downtown, []byte("m"))
			require.NoError(t, err)
		}

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = map[string]int{}
		)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := q.Receive(t.Context(), downtown, 3, 30*time.Second)
				if err != nil {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				for _, m := range got {
					seen[m.Lease.MessageID]++
				}
			}()
		}
		wg.Wait()

		assert.Len(t, seen, 20)
		for id, n := range seen {
			assert.Equal(t, 1, n, id)
		}
	})

	t.Run("ping", func(t *testing.T) {
		q := newQueue(t, NewClock(start), ttl)
		assert.NoError(t, q.Ping(t.Context()))
	})
}
