// Package redisqueue is the production ports.DispatchQueue: one queue per
// delivery area kept in Redis. Receive and Delete run as Lua scripts, so
// handing out a lease and checking a pop receipt are atomic.
//
// Every area owns six keys sharing one hash tag:
//
//	<prefix>:{<area>}:body      hash  id -> message body
//	<prefix>:{<area>}:dequeue   hash  id -> times handed out
//	<prefix>:{<area>}:inserted  hash  id -> insertion time, unix ms
//	<prefix>:{<area>}:receipt   hash  id -> current pop receipt
//	<prefix>:{<area>}:visible   zset  id scored by the time it becomes visible
//	<prefix>:{<area>}:expires   zset  id scored by the end of its retention
package redisqueue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const DefaultPrefix = "bytebite:dispatch"

var _ ports.DispatchQueue = (*Queue)(nil)

type Config struct {
	Prefix     string
	MessageTTL time.Duration
}

type Queue struct {
	client redis.UniversalClient
	clock  ports.Clock
	cfg    Config
}

func New(client redis.UniversalClient, clock ports.Clock, cfg Config) *Queue {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	return &Queue{client: client, clock: clock, cfg: cfg}
}

type areaKeys struct {
	body, dequeue, inserted, receipt, visible, expires string
}

func (q *Queue) keys(area kernel.Area) areaKeys {
	base := fmt.Sprintf("%s:{%s}", q.cfg.Prefix, area.String())
	return areaKeys{
		body:     base + ":body",
		dequeue:  base + ":dequeue",
		inserted: base + ":inserted",
		receipt:  base + ":receipt",
		visible:  base + ":visible",
		expires:  base + ":expires",
	}
}

func (k areaKeys) list() []string {
	return []string{k.body, k.dequeue, k.inserted, k.receipt, k.visible, k.expires}
}

func (q *Queue) Send(ctx context.Context, area kernel.Area, body []byte) (string, error) {
	k := q.keys(area)
	id := uuid.NewString()
	now := q.clock.Now()
	nowMs := now.UnixMilli()

	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k.body, id, body)
		pipe.HSet(ctx, k.inserted, id, nowMs)
		pipe.HSet(ctx, k.dequeue, id, 0)
		pipe.ZAdd(ctx, k.visible, &redis.Z{Score: float64(nowMs), Member: id})
		pipe.ZAdd(ctx, k.expires, &redis.Z{Score: float64(now.Add(q.cfg.MessageTTL).UnixMilli()), Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("send to %s queue: %w", area, err)
	}
	return id, nil
}

func (q *Queue) Receive(
	ctx context.Context,
	area kernel.Area,
	maxMessages int,
	visibility time.Duration,
) ([]ports.QueueMessage, error) {
	maxMessages = clampBatch(maxMessages)
	now := q.clock.Now()

	args := make([]any, 0, 3+maxMessages)
	args = append(args, now.UnixMilli(), now.Add(visibility).UnixMilli(), maxMessages)
	for range maxMessages {
		args = append(args, uuid.NewString())
	}

	raw, err := receiveScript.Run(ctx, q.client, q.keys(area).list(), args...).Slice()
	if err != nil {
		return nil, fmt.Errorf("receive from %s queue: %w", area, err)
	}

	out := make([]ports.QueueMessage, 0, len(raw))
	for _, entry := range raw {
		m, err := parseEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("receive from %s queue: %w", area, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (q *Queue) Delete(ctx context.Context, area kernel.Area, lease ports.Lease) error {
	deleted, err := deleteScript.Run(ctx, q.client, q.keys(area).list(), lease.MessageID, lease.PopReceipt).Int()
	if err != nil {
		return fmt.Errorf("delete from %s queue: %w", area, err)
	}
	if deleted == 0 {
		return errs.NewObjectNotFoundError("queue message", lease.MessageID)
	}
	return nil
}

func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// parseEntry decodes one {id, receipt, body, dequeueCount, insertedMs} reply.
func parseEntry(entry any) (ports.QueueMessage, error) {
	fields, ok := entry.([]any)
	if !ok || len(fields) != 5 {
		return ports.QueueMessage{}, fmt.Errorf("unexpected script reply %v", entry)
	}
	id, _ := fields[0].(string)
	receipt, _ := fields[1].(string)
	body, _ := fields[2].(string)
	count, _ := fields[3].(int64)
	insertedRaw, _ := fields[4].(string)

	insertedMs, err := strconv.ParseInt(insertedRaw, 10, 64)
	if err != nil {
		return ports.QueueMessage{}, fmt.Errorf("message %s: inserted time %q: %w", id, insertedRaw, err)
	}

	return ports.QueueMessage{
		Lease:        ports.Lease{MessageID: id, PopReceipt: receipt},
		Body:         []byte(body),
		DequeueCount: count,
		InsertedAt:   time.UnixMilli(insertedMs).UTC(),
	}, nil
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
