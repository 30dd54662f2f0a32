package gitrepo

import (
	"fmt"
	"sync"
	"time"
)

// Fingerprint derives a cache key from an artifact's identity and content
// length. Length is a cheap stand-in for content equality: a collision only
// costs a rebuild on the next republish, never a wrong pack for a key that
// matches.
func Fingerprint(skillID int64, contentLen int) string {
	return fmt.Sprintf("%d:%d", skillID, contentLen)
}

type cacheEntry struct {
	pack      *Pack
	expiresAt time.Time
}

// Cache keeps recently assembled packs around long enough to absorb the
// handful of sequential requests one git clone issues. Entries expire after
// a fixed TTL, and capacity pressure drops the oldest-inserted survivor
// rather than tracking recency.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]*cacheEntry
	order    []string

	now func() time.Time
}

func NewCache(ttl time.Duration, capacity int) *Cache {
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		entries:  map[string]*cacheEntry{},
		now:      time.Now,
	}
}

// Get returns the pack cached under key, treating an expired entry as a
// miss and dropping it on the spot.
func (c *Cache) Get(key string) (*Pack, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !c.now().Before(e.expiresAt) {
		c.remove(key)
		return nil, false
	}

	return e.pack, true
}

// Put inserts pack under key, first sweeping expired entries and, if still
// at capacity, evicting the oldest-inserted survivor. At most one entry
// exists per key.
func (c *Cache) Put(key string, pack *Pack) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, k := range append([]string(nil), c.order...) {
		if e := c.entries[k]; e != nil && !now.Before(e.expiresAt) {
			c.remove(k)
		}
	}

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}

	if c.capacity > 0 && len(c.entries) >= c.capacity {
		c.remove(c.order[0])
	}

	c.entries[key] = &cacheEntry{pack: pack, expiresAt: now.Add(c.ttl)}
	c.order = append(c.order, key)
}

// remove expects c.mu to be held.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
