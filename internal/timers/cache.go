// Package timers holds the in-memory copy of the room's timer list.
package timers

import (
	"context"
	"fmt"
	"sync"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// Fetcher returns the service's authoritative timer list.
type Fetcher interface {
	ListTimers(ctx context.Context) ([]domain.Timer, error)
}

// Cache is replaced wholesale on every successful refresh. It never sorts,
// de-duplicates or mutates itself optimistically. When refreshes overlap, the
// one that completes last wins regardless of issue order.
type Cache struct {
	fetch Fetcher

	mu    sync.RWMutex
	items []domain.Timer
	gen   uint64
}

// NewCache creates an empty cache backed by f.
func NewCache(f Fetcher) *Cache {
	return &Cache{fetch: f}
}

// Refresh re-fetches the list. On error the previous list is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	items, err := c.fetch.ListTimers(ctx)
	if err != nil {
		return fmt.Errorf("timers.Refresh: %w", err)
	}
	c.Replace(items)
	return nil
}

// Replace swaps in a freshly fetched list.
func (c *Cache) Replace(items []domain.Timer) {
	cp := make([]domain.Timer, len(items))
	copy(cp, items)
	c.mu.Lock()
	c.items = cp
	c.gen++
	c.mu.Unlock()
}

// Items returns a copy of the list in service order.
func (c *Cache) Items() []domain.Timer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Timer, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of cached timers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find looks a timer up by id.
func (c *Cache) Find(id string) (domain.Timer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.items {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Timer{}, false
}

// Generation counts successful replacements.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}
