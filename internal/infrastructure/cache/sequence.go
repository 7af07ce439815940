package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// sequenceTTL keeps a daily counter alive past midnight in any timezone
const sequenceTTL = 48 * time.Hour

// formatNumber renders PREFIX-YYYYMMDD-NNNN
func formatNumber(prefix, day string, n int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, n)
}

func normalizePrefix(prefix string) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("sequence prefix cannot be empty")
	}
	return prefix, nil
}

// raiseCounter lifts a counter to ARGV[1] if it is lower. It never lowers a
// counter, so it is safe against concurrent INCRs from other instances.
var raiseCounter = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current < tonumber(ARGV[1]) then
	redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
end
return current
`)

// RedisSequenceGenerator hands out daily counters with INCR so every
// instance of the service draws from the same sequence
type RedisSequenceGenerator struct {
	client    redis.UniversalClient
	keyPrefix string
	loc       *time.Location
	now       func() time.Time

	floor  shared.SequenceFloor
	seeded sync.Map // key -> struct{}
}

var _ shared.SequenceGenerator = (*RedisSequenceGenerator)(nil)

// NewRedisSequenceGenerator creates a Redis-backed generator. Days roll over in loc.
func NewRedisSequenceGenerator(client redis.UniversalClient, loc *time.Location) *RedisSequenceGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &RedisSequenceGenerator{client: client, keyPrefix: "seq:", loc: loc, now: time.Now}
}

// SeedFrom makes the first number of each day continue after the highest one
// floor reports. This covers a flushed or replaced Redis.
func (g *RedisSequenceGenerator) SeedFrom(floor shared.SequenceFloor) *RedisSequenceGenerator {
	g.floor = floor
	return g
}

// Next returns the next document number for prefix
func (g *RedisSequenceGenerator) Next(ctx context.Context, prefix string) (string, error) {
	prefix, err := normalizePrefix(prefix)
	if err != nil {
		return "", err
	}
	day := g.now().In(g.loc).Format("20060102")
	key := g.keyPrefix + prefix + ":" + day
	if err := g.seed(ctx, key, prefix, day); err != nil {
		return "", err
	}

	var incr *redis.IntCmd
	_, err = g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, sequenceTTL)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to increment sequence %s: %w", key, err)
	}
	return formatNumber(prefix, day, incr.Val()), nil
}

func (g *RedisSequenceGenerator) seed(ctx context.Context, key, prefix, day string) error {
	if g.floor == nil {
		return nil
	}
	if _, done := g.seeded.Load(key); done {
		return nil
	}
	last, err := g.floor.LastIssued(ctx, prefix, day)
	if err != nil {
		return err
	}
	if last > 0 {
		ttl := int64(sequenceTTL / time.Second)
		if err := raiseCounter.Run(ctx, g.client, []string{key}, last, ttl).Err(); err != nil {
			return fmt.Errorf("failed to seed sequence %s: %w", key, err)
		}
	}
	g.seeded.Store(key, struct{}{})
	return nil
}

// InMemorySequenceGenerator keeps counters in process memory. Only safe for
// a single instance. Without a floor, restarts begin again at 1.
type InMemorySequenceGenerator struct {
	mu       sync.Mutex
	counters map[string]int64
	seeded   map[string]bool
	day      string
	loc      *time.Location
	now      func() time.Time
	floor    shared.SequenceFloor
}

var _ shared.SequenceGenerator = (*InMemorySequenceGenerator)(nil)

// NewInMemorySequenceGenerator creates an in-memory generator. Days roll over in loc.
func NewInMemorySequenceGenerator(loc *time.Location) *InMemorySequenceGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &InMemorySequenceGenerator{
		counters: make(map[string]int64),
		seeded:   make(map[string]bool),
		loc:      loc,
		now:      time.Now,
	}
}

// SeedFrom makes each prefix resume after the highest number floor reports
// for the day, so numbers already stored are not handed out again after a
// restart.
func (g *InMemorySequenceGenerator) SeedFrom(floor shared.SequenceFloor) *InMemorySequenceGenerator {
	g.floor = floor
	return g
}

// Next returns the next document number for prefix
func (g *InMemorySequenceGenerator) Next(ctx context.Context, prefix string) (string, error) {
	prefix, err := normalizePrefix(prefix)
	if err != nil {
		return "", err
	}
	day := g.now().In(g.loc).Format("20060102")

	g.mu.Lock()
	defer g.mu.Unlock()
	if day != g.day {
		// new day, drop yesterday's counters
		g.counters = make(map[string]int64)
		g.seeded = make(map[string]bool)
		g.day = day
	}
	if g.floor != nil && !g.seeded[prefix] {
		last, err := g.floor.LastIssued(ctx, prefix, day)
		if err != nil {
			return "", err
		}
		g.counters[prefix] = max(g.counters[prefix], last)
		g.seeded[prefix] = true
	}
	g.counters[prefix]++
	return formatNumber(prefix, day, g.counters[prefix]), nil
}
