package query

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrDisabled is returned by reads attempted before the session is ready.
// The request is never sent.
var ErrDisabled = errors.New("query: session not ready")

// Gate reports whether authenticated reads may run.
type Gate interface {
	Ready() bool
}

type entry struct {
	value any
}

// Cache holds read results by key. Concurrent reads of one key share a
// single request. Invalidation bumps the key's generation: a read that was
// in flight when the key was invalidated returns its result to its callers
// but never stores it, and reads issued afterwards start a new request.
type Cache struct {
	gate   Gate
	logger *slog.Logger
	group  singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
	gens    map[string]uint64 // every key ever fetched
}

// NewCache returns an empty cache whose reads are gated by gate. A nil gate
// never blocks.
func NewCache(gate Gate, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		gate:    gate,
		logger:  logger,
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
	}
}

// Fetch returns the cached value for key, or runs fn once for all current
// callers and caches its result.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if c.gate != nil && !c.gate.Ready() {
		return zero, ErrDisabled
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if v, ok := e.value.(T); ok {
			c.mu.Unlock()
			return v, nil
		}
	}
	gen := c.gens[key]
	c.gens[key] = gen
	c.mu.Unlock()

	// The shared request must not die with whichever caller started it, so
	// it runs without that caller's cancellation. Each caller still stops
	// waiting when its own ctx is done.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		val, err := fn(shared)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gens[key] == gen {
			c.entries[key] = entry{value: val}
		} else {
			c.logger.Debug("discarding result invalidated in flight", "key", key)
		}
		c.mu.Unlock()

		return val, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			c.logger.Debug("read shared with concurrent caller", "key", key)
		}
		return res.Val.(T), nil
	}
}

// Invalidate drops every entry whose key starts with prefix, including
// reads currently in flight.
func (c *Cache) Invalidate(prefix string) int {
	return c.invalidate(func(key string) bool { return strings.HasPrefix(key, prefix) })
}

// InvalidateKey drops exactly key.
func (c *Cache) InvalidateKey(key string) int {
	return c.invalidate(func(k string) bool { return k == key })
}

func (c *Cache) invalidate(match func(string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.entries {
		if match(key) {
			delete(c.entries, key)
			n++
		}
	}
	for key := range c.gens {
		if match(key) {
			c.gens[key]++
		}
	}
	return n
}

// Reset drops everything. Used when the session ends so the next user
// cannot see the previous user's data.
func (c *Cache) Reset() {
	c.Invalidate("")
}

// Has reports whether key currently holds a cached value.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
