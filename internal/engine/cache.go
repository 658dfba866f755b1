package engine

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dm/karma-go/internal/model"
)

type cacheKey struct {
	target int
	run    model.RunIdentity
}

// Cache holds successful measurements keyed by target and run. It is safe
// for concurrent use by sweep workers.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]model.Measurement
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]model.Measurement)}
}

// Get returns the measurement of target for run.
func (c *Cache) Get(target int, run model.RunIdentity) (model.Measurement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[cacheKey{target, run}]
	return m, ok
}

// Put stores m under its target and run, replacing any previous entry.
func (c *Cache) Put(m model.Measurement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{m.Target, m.Run}] = m
}

// Entries returns the measurements cached for run in ascending target order.
func (c *Cache) Entries(run model.RunIdentity) []model.Measurement {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.Measurement
	for k, m := range c.entries {
		if k.run == run {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b model.Measurement) int {
		return cmp.Compare(a.Target, b.Target)
	})
	return out
}

// Count returns how many of targets are cached for run.
func (c *Cache) Count(run model.RunIdentity, targets []int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range targets {
		if _, ok := c.entries[cacheKey{t, run}]; ok {
			n++
		}
	}
	return n
}

// Len returns the number of cached measurements across all runs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
