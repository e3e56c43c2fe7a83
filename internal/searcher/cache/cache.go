// Package cache provides a Redis-backed result cache for query evaluations.
// Concurrent identical queries are collapsed with singleflight so the engine
// evaluates each distinct (query, ranker, threshold, limit) once per TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/norajeanett/S-tek/internal/engine"
	"github.com/norajeanett/S-tek/pkg/config"
	pkgredis "github.com/norajeanett/S-tek/pkg/redis"
)

const keyPrefix = "search:"

// Store is the slice of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache caches Evaluations in Redis keyed by the normalized query, the
// ranker name, and the evaluation options. Two requests for the same query
// under different rankers produce different scores, so they never share an
// entry.
type QueryCache struct {
	store  Store
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache over the given store.
func New(store Store, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		store:  store,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached evaluation for the query, ranker, and options, if
// present.
func (c *QueryCache) Get(ctx context.Context, query, rankerName string, opts engine.Options) (*engine.Evaluation, bool) {
	eval, ok := c.lookup(ctx, c.buildKey(query, rankerName, opts))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return eval, ok
}

// Set stores an evaluation under the query, ranker, and options key.
func (c *QueryCache) Set(ctx context.Context, query, rankerName string, opts engine.Options, eval *engine.Evaluation) {
	c.put(ctx, c.buildKey(query, rankerName, opts), eval)
}

type flightResult struct {
	eval   *engine.Evaluation
	cached bool
}

// GetOrCompute returns the cached evaluation or computes, caches, and
// returns it. The boolean reports whether the result came from the cache.
// Each call counts exactly one hit or one miss; an entry found on the
// re-check inside the flight still counts as a hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query, rankerName string,
	opts engine.Options,
	computeFn func() (*engine.Evaluation, error),
) (*engine.Evaluation, bool, error) {
	key := c.buildKey(query, rankerName, opts)
	if eval, ok := c.lookup(ctx, key); ok {
		c.hits.Add(1)
		return eval, true, nil
	}
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A collapsed caller may have populated the entry between our
		// first lookup and acquiring the flight.
		if eval, ok := c.lookup(ctx, key); ok {
			return &flightResult{eval: eval, cached: true}, nil
		}
		eval, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.put(ctx, key, eval)
		return &flightResult{eval: eval}, nil
	})
	if err != nil {
		c.misses.Add(1)
		return nil, false, err
	}
	res := val.(*flightResult)
	if res.cached {
		c.hits.Add(1)
		return res.eval, true, nil
	}
	c.misses.Add(1)
	return res.eval, false, nil
}

// Invalidate removes every cached evaluation.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns hit and miss counts since startup.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// lookup fetches and decodes an entry without touching the counters.
func (c *QueryCache) lookup(ctx context.Context, key string) (*engine.Evaluation, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	var eval engine.Evaluation
	if err := json.Unmarshal([]byte(data), &eval); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		return nil, false
	}
	return &eval, true
}

func (c *QueryCache) put(ctx context.Context, key string, eval *engine.Evaluation) {
	data, err := json.Marshal(eval)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

func (c *QueryCache) buildKey(query, rankerName string, opts engine.Options) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	raw := fmt.Sprintf("%s:r=%s:t=%.4f:k=%d", normalized, rankerName, opts.MatchThreshold, opts.HitCount)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
