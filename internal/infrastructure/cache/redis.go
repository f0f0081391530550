package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisOpTimeout = 500 * time.Millisecond
	redisScanCount = 500

	// Bookkeeping keys under KeyPrefix. Cache keys always start with a kind
	// name, so the leading underscore keeps them apart.
	redisIndexKey = "_index"
	redisSeqKey   = "_seq"
)

// putScript stores a value, records its insertion sequence in the index and
// pops the oldest insertions beyond the ceiling. It returns the evicted keys.
//
// KEYS: value key, index, sequence. ARGV: value, ttl ms, max entries.
var putScript = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
local seq = redis.call('INCR', KEYS[3])
redis.call('ZADD', KEYS[2], seq, KEYS[1])
local over = redis.call('ZCARD', KEYS[2]) - tonumber(ARGV[3])
local evicted = {}
if over > 0 then
  local popped = redis.call('ZPOPMIN', KEYS[2], over)
  for i = 1, #popped, 2 do
    redis.call('DEL', popped[i])
    evicted[#evicted + 1] = popped[i]
  end
end
return evicted
`)

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	// MaxEntries bounds the keys held across every instance sharing KeyPrefix.
	MaxEntries int
	// KeyPrefix namespaces every key, e.g. "insights:".
	KeyPrefix string
	// OnEvict is called for every key dropped to respect MaxEntries.
	OnEvict func(key string)
}

// RedisCache shares cached results between instances. A sorted set indexes
// keys by insertion sequence; once it holds more than MaxEntries keys the
// oldest insertions are deleted. Every Redis failure is logged and treated as
// a miss.
type RedisCache struct {
	client     *redis.Client
	logger     *slog.Logger
	ttl        time.Duration
	maxEntries int
	keyPrefix  string
	onEvict    func(key string)
}

// NewRedisCache creates a client for opts.Addr. It does not connect eagerly.
func NewRedisCache(opts RedisOptions, logger *slog.Logger) *RedisCache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  redisOpTimeout,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
		MaxRetries:   1,
	})
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &RedisCache{
		client:     client,
		logger:     logger,
		ttl:        ttl,
		maxEntries: maxEntries,
		keyPrefix:  opts.KeyPrefix,
		onEvict:    opts.OnEvict,
	}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	keys := []string{c.keyPrefix + key, c.keyPrefix + redisIndexKey, c.keyPrefix + redisSeqKey}
	evicted, err := putScript.Run(ctx, c.client, keys, value, ttl.Milliseconds(), c.maxEntries).StringSlice()
	if err != nil {
		c.logger.WarnContext(ctx, "redis cache put failed", "key", key, "error", err)
		return
	}
	if c.onEvict != nil {
		for _, k := range evicted {
			c.onEvict(strings.TrimPrefix(k, c.keyPrefix))
		}
	}
}

// Invalidate deletes keys starting with prefix using SCAN, batch by batch.
func (c *RedisCache) Invalidate(ctx context.Context, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, 5*redisOpTimeout)
	defer cancel()

	pattern := escapeGlob(c.keyPrefix+prefix) + "*"
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, redisScanCount).Result()
		if err != nil {
			c.logger.WarnContext(ctx, "redis cache invalidate failed", "prefix", prefix, "error", err)
			return
		}
		keys = c.withoutBookkeeping(keys)
		if len(keys) > 0 {
			members := make([]any, len(keys))
			for i, k := range keys {
				members[i] = k
			}
			_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, keys...)
				pipe.ZRem(ctx, c.keyPrefix+redisIndexKey, members...)
				return nil
			})
			if err != nil {
				c.logger.WarnContext(ctx, "redis cache invalidate failed", "prefix", prefix, "error", err)
				return
			}
			deleted += len(keys)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	c.logger.DebugContext(ctx, "redis cache invalidated", "prefix", prefix, "deleted", deleted)
}

func (c *RedisCache) withoutBookkeeping(keys []string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k == c.keyPrefix+redisIndexKey || k == c.keyPrefix+redisSeqKey {
			continue
		}
		out = append(out, k)
	}
	return out
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
