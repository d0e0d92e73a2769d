// Package dedupe tracks recently indexed article revisions so replayed
// publish events do not trigger redundant index writes.
package dedupe

import (
	"sync"
	"time"
)

type stamp struct {
	key string
	at  time.Time
}

// Cache keeps a fixed-size set of recently indexed revision keys. A key
// is the article id combined with its revision marker, so an updated
// article always passes through while an exact replay is dropped.
type Cache struct {
	mu       sync.Mutex
	items    map[string]time.Time
	order    []stamp
	capacity int
	ttl      time.Duration
}

// New creates a cache with the provided capacity and ttl.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		items:    make(map[string]time.Time, capacity),
		order:    make([]stamp, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// IsSeen returns true when the key has already been observed inside the
// ttl window. It does not mark the key; call MarkSeen after the write
// succeeds so failed writes stay retryable.
func (c *Cache) IsSeen(key string) bool {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if at, ok := c.items[key]; ok {
		if now.Sub(at) <= c.ttl {
			return true
		}
	}
	return false
}

// MarkSeen records that a revision has been indexed.
func (c *Cache) MarkSeen(key string) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = now
	c.order = append(c.order, stamp{key: key, at: now})
	c.compact(now)
}

func (c *Cache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].at.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		if at, ok := c.items[oldest.key]; ok {
			if at == oldest.at {
				delete(c.items, oldest.key)
			}
		}
	}
}
