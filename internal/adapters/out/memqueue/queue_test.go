package memqueue_test

import (
	"context"
	"testing"
	"time"

	"bytebite/internal/adapters/out/memqueue"
	"bytebite/internal/adapters/out/queuetest"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_Contract(t *testing.T) {
	queuetest.Run(t, func(_ *testing.T, clock ports.Clock, ttl time.Duration) ports.DispatchQueue {
		return memqueue.New(clock, ttl)
	})
}

func TestQueue_Len(t *testing.T) {
	clock := queuetest.NewClock(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))
	q := memqueue.New(clock, time.Hour)
	area := kernel.MustNewArea("downtown")

	_, err := q.Send(t.Context(), area, []byte("a"))
	require.NoError(t, err)
	_, err = q.Receive(t.Context(), area, 1, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, q.Len(area))
	assert.Equal(t, 0, q.Len(kernel.MustNewArea("uptown")))
}

func TestQueue_CanceledContext(t *testing.T) {
	q := memqueue.New(ports.SystemClock{}, time.Hour)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := q.Send(ctx, kernel.MustNewArea("downtown"), []byte("a"))
	assert.ErrorIs(t, err, context.Canceled)
}
