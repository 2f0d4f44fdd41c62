package ledger

import (
	"sync"
	"time"

	"github.com/dafenarts/backend/internal/domain/portfolio"
)

// statsCacheTTL keeps the stats fold from re-running on every read burst
// while staying effectively real-time.
const statsCacheTTL = time.Second

// statsCache is a single-entry time-boxed cache for the order stats fold.
// Any order mutation invalidates it.
type statsCache struct {
	mu       sync.Mutex
	stats    portfolio.OrderStats
	computed time.Time
	valid    bool
}

// get returns the cached stats or recomputes them via fn
func (c *statsCache) get(fn func() (portfolio.OrderStats, error)) (portfolio.OrderStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && time.Since(c.computed) < statsCacheTTL {
		return c.stats, nil
	}
	stats, err := fn()
	if err != nil {
		return portfolio.OrderStats{}, err
	}
	c.stats = stats
	c.computed = time.Now()
	c.valid = true
	return stats, nil
}

// invalidate drops the cached entry
func (c *statsCache) invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
