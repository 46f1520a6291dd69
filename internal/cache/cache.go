// Package cache stores query results for the executor.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// DefaultTTL is how long results stay fresh when no TTL is configured.
const DefaultTTL = time.Hour

// Cache holds query results by key.
type Cache interface {
	Get(key string) (*models.QueryResult, bool)
	Put(key string, result *models.QueryResult, ttl time.Duration)
	Flush()
}

// Memory is an in-process cache with per-entry expiry.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a memory cache. Expired entries are purged every
// cleanup interval; a non-positive interval disables the janitor.
func NewMemory(ttl, cleanup time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{store: gocache.New(ttl, cleanup)}
}

// Get returns the cached result for key.
func (m *Memory) Get(key string) (*models.QueryResult, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	r, ok := v.(*models.QueryResult)
	return r, ok
}

// Put stores result under key. A zero ttl uses the cache default.
func (m *Memory) Put(key string, result *models.QueryResult, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.store.Set(key, result, ttl)
}

// Flush drops every entry.
func (m *Memory) Flush() {
	m.store.Flush()
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (m *Memory) Len() int {
	return m.store.ItemCount()
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(string) (*models.QueryResult, bool) { return nil, false }

// Put discards the result.
func (Nop) Put(string, *models.QueryResult, time.Duration) {}

// Flush does nothing.
func (Nop) Flush() {}
