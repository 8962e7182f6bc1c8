package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"trustlink/internal/verification/metrics"
	"trustlink/internal/verification/models"
	"trustlink/pkg/domain"
	"trustlink/pkg/platform/circuit"
)

const (
	entryKeyPrefix     = "vr:entry:"
	genKeyPrefix       = "vr:gen:"
	defaultEntryTTL    = 5 * time.Minute
	genKeyTTL          = 24 * time.Hour
	cacheResultHit     = "hit"
	cacheResultMiss    = "miss"
	cacheResultError   = "error"
	cacheResultBypass  = "bypass"
	cacheBreakerName   = "verification-entry-cache"
	cacheFailThreshold = 5
)

// EntryReader is the read path the cache fronts.
type EntryReader interface {
	FindEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error)
}

// fillScript stores the entry only if the slot generation still matches the
// one read before the primary lookup. An Invalidate in between bumps the
// generation and the stale fill is dropped.
var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisCache is a read-through cache for single entries. Every Redis call is
// attempted; while the breaker is open results from Redis are not trusted
// and reads go to the primary store.
//
// Each slot has a generation counter next to its entry key. Both keys share
// a hash tag so they land in the same cluster slot.
type RedisCache struct {
	client  redis.Cmdable
	primary EntryReader
	ttl     time.Duration
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type CacheOption func(*RedisCache)

func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *RedisCache) {
		c.metrics = m
	}
}

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

func WithCacheBreaker(b *circuit.Breaker) CacheOption {
	return func(c *RedisCache) {
		c.breaker = b
	}
}

func NewRedisCache(client redis.Cmdable, primary EntryReader, opts ...CacheOption) *RedisCache {
	c := &RedisCache{
		client:  client,
		primary: primary,
		ttl:     defaultEntryTTL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = circuit.New(cacheBreakerName, circuit.WithFailureThreshold(cacheFailThreshold))
	}
	return c
}

type cachedEntry struct {
	DataHash  domain.DataHash `json:"h"`
	Timestamp uint64          `json:"ts"`
	IsActive  bool            `json:"a"`
}

func slotTag(principal domain.Principal, vtype models.VerificationType) string {
	return fmt.Sprintf("{%s:%d}", principal.String(), uint8(vtype))
}

func entryCacheKey(principal domain.Principal, vtype models.VerificationType) string {
	return entryKeyPrefix + slotTag(principal, vtype)
}

func genCacheKey(principal domain.Principal, vtype models.VerificationType) string {
	return genKeyPrefix + slotTag(principal, vtype)
}

func (c *RedisCache) FindEntry(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error) {
	key := entryCacheKey(principal, vtype)
	genKey := genCacheKey(principal, vtype)

	vals, err := c.client.MGet(ctx, key, genKey).Result()
	if err != nil {
		c.recordFailure(ctx, "get", err)
		c.metrics.IncrementCache(cacheResultError)
		return c.primary.FindEntry(ctx, principal, vtype)
	}
	if !c.recordSuccess() {
		c.metrics.IncrementCache(cacheResultBypass)
		return c.primary.FindEntry(ctx, principal, vtype)
	}

	gen := "0"
	if v, ok := vals[1].(string); ok {
		gen = v
	}
	if raw, ok := vals[0].(string); ok {
		var cached cachedEntry
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			c.metrics.IncrementCache(cacheResultHit)
			return models.Entry(cached), nil
		}
	}
	c.metrics.IncrementCache(cacheResultMiss)

	entry, err := c.primary.FindEntry(ctx, principal, vtype)
	if err != nil {
		return models.Entry{}, err
	}
	c.fill(ctx, key, genKey, gen, entry)
	return entry, nil
}

// Invalidate drops the cached slot and bumps its generation so an in-flight
// fill that read the primary before the write cannot restore the old value.
// Called after the owning write commits.
func (c *RedisCache) Invalidate(ctx context.Context, principal domain.Principal, vtype models.VerificationType) error {
	genKey := genCacheKey(principal, vtype)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, genKeyTTL)
		pipe.Del(ctx, entryCacheKey(principal, vtype))
		return nil
	})
	if err != nil {
		c.recordFailure(ctx, "invalidate", err)
		return fmt.Errorf("invalidate cached entry: %w", err)
	}
	c.recordSuccess()
	return nil
}

func (c *RedisCache) fill(ctx context.Context, key, genKey, gen string, entry models.Entry) {
	payload, err := json.Marshal(cachedEntry(entry))
	if err != nil {
		return
	}
	err = fillScript.Run(ctx, c.client, []string{key, genKey}, gen, payload, c.ttl.Milliseconds()).Err()
	if err != nil {
		c.recordFailure(ctx, "set", err)
		return
	}
	c.recordSuccess()
}

func (c *RedisCache) recordFailure(ctx context.Context, op string, err error) {
	_, change := c.breaker.RecordFailure()
	if change.Opened && c.logger != nil {
		c.logger.WarnContext(ctx, "entry cache circuit opened",
			"breaker", c.breaker.Name(),
			"operation", op,
			"error", err,
		)
	}
}

func (c *RedisCache) recordSuccess() bool {
	usePrimary, change := c.breaker.RecordSuccess()
	if change.Closed && c.logger != nil {
		c.logger.Info("entry cache circuit closed", "breaker", c.breaker.Name())
	}
	return usePrimary
}
