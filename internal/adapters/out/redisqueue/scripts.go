package redisqueue

import "github.com/go-redis/redis/v8"

// KEYS: body, dequeue, inserted, receipt, visible, expires.
// ARGV: now, hideUntil, limit, receipt_1..receipt_limit.
var receiveScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local hideUntil = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local expired = redis.call('ZRANGEBYSCORE', KEYS[6], '-inf', now)
for _, id in ipairs(expired) do
  redis.call('HDEL', KEYS[1], id)
  redis.call('HDEL', KEYS[2], id)
  redis.call('HDEL', KEYS[3], id)
  redis.call('HDEL', KEYS[4], id)
  redis.call('ZREM', KEYS[5], id)
  redis.call('ZREM', KEYS[6], id)
end

local ids = redis.call('ZRANGEBYSCORE', KEYS[5], '-inf', now, 'LIMIT', 0, limit)
local out = {}
for i, id in ipairs(ids) do
  local receipt = ARGV[3 + i]
  redis.call('ZADD', KEYS[5], hideUntil, id)
  redis.call('HSET', KEYS[4], id, receipt)
  local count = redis.call('HINCRBY', KEYS[2], id, 1)
  out[i] = {id, receipt, redis.call('HGET', KEYS[1], id), count, redis.call('HGET', KEYS[3], id)}
end
return out
`)

// KEYS: body, dequeue, inserted, receipt, visible, expires.
// ARGV: message id, pop receipt.
var deleteScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[4], ARGV[1])
if not current or current ~= ARGV[2] then
  return 0
end
redis.call('HDEL', KEYS[1], ARGV[1])
redis.call('HDEL', KEYS[2], ARGV[1])
redis.call('HDEL', KEYS[3], ARGV[1])
redis.call('HDEL', KEYS[4], ARGV[1])
redis.call('ZREM', KEYS[5], ARGV[1])
redis.call('ZREM', KEYS[6], ARGV[1])
return 1
`)
