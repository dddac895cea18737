// Package cache implements the evaluation point cache: a shared,
// lock-protected store keyed by point coordinates, handed out as opaque
// handles so that barriers and simplices reference cache-owned evaluation
// points rather than holding them directly.
package cache

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/numeric"
)

// Handle is an opaque reference to a cached evaluation point.
type Handle uuid.UUID

// Cache is the contract a cache implementation satisfies: find by
// coordinates, insert (idempotent on x), filtered orderings, and reset.
type Cache interface {
	Find(x numeric.AoD) (*eval.Point, bool)
	Insert(p *eval.Point) Handle
	FindBestFeas(less func(a, b *eval.Point) bool) *eval.Point
	FindBestInf(less func(a, b *eval.Point) bool) *eval.Point
	Clear()
	ResetNbCacheHits()
	NbCacheHits() int
	Len() int
}

// MemCache is the in-memory reference Cache: points are stored in an
// arena keyed by Handle, with a secondary index from coordinate key to
// Handle for Find, and a single RWMutex protecting both.
type MemCache struct {
	mu        sync.RWMutex
	arena     map[Handle]*eval.Point
	byCoord   map[string]Handle
	nbHits    int
}

// NewMemCache builds an empty MemCache.
func NewMemCache() *MemCache {
	return &MemCache{
		arena:   make(map[Handle]*eval.Point),
		byCoord: make(map[string]Handle),
	}
}

func coordKey(x numeric.AoD) string {
	key := ""
	for _, d := range x {
		v, ok := d.Float64()
		if !ok {
			key += "u,"
			continue
		}
		key += fmt.Sprintf("%.15g,", v)
	}
	return key
}

// Find returns the cached point at x, if any, incrementing the hit counter
// on success.
func (c *MemCache) Find(x numeric.AoD) (*eval.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.byCoord[coordKey(x)]
	if !ok {
		return nil, false
	}
	p, ok := c.arena[h]
	if ok {
		c.nbHits++
	}
	return p, ok
}

// Insert adds p to the cache, idempotent on p.X: a second insert at the
// same coordinates returns the existing handle and leaves the stored point
// untouched.
func (c *MemCache) Insert(p *eval.Point) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := coordKey(p.X)
	if h, ok := c.byCoord[key]; ok {
		return h
	}
	h := Handle(uuid.New())
	c.arena[h] = p
	c.byCoord[key] = h
	return h
}

// FindBestFeas returns the feasible cached point minimizing less, or nil.
func (c *MemCache) FindBestFeas(less func(a, b *eval.Point) bool) *eval.Point {
	return c.findBest(func(p *eval.Point) bool { return p.IsFeasible() }, less)
}

// FindBestInf returns the infeasible cached point minimizing less, or nil.
func (c *MemCache) FindBestInf(less func(a, b *eval.Point) bool) *eval.Point {
	return c.findBest(func(p *eval.Point) bool { return p.EvalStatus == eval.Ok && !p.IsFeasible() }, less)
}

func (c *MemCache) findBest(filter func(*eval.Point) bool, less func(a, b *eval.Point) bool) *eval.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var best *eval.Point
	for _, p := range c.arena {
		if !filter(p) {
			continue
		}
		if best == nil || less(p, best) {
			best = p
		}
	}
	return best
}

// Clear empties the cache.
func (c *MemCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arena = make(map[Handle]*eval.Point)
	c.byCoord = make(map[string]Handle)
}

// ResetNbCacheHits zeroes the hit counter.
func (c *MemCache) ResetNbCacheHits() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nbHits = 0
}

// NbCacheHits returns the number of successful Find calls since the last
// reset.
func (c *MemCache) NbCacheHits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nbHits
}

// Len returns the number of cached points.
func (c *MemCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.arena)
}
