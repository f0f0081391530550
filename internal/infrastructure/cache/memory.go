package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

// Defaults applied when MemoryOptions leaves a field zero.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 100
)

// MemoryOptions configures a MemoryCache.
type MemoryOptions struct {
	TTL        time.Duration
	MaxEntries int

	// Now replaces the clock in tests.
	Now func() time.Time
	// OnEvict is called for every entry dropped to respect MaxEntries.
	OnEvict func(key string)
}

type memoryEntry struct {
	insertedAt time.Time
	key        string
	value      []byte
	ttl        time.Duration
}

// MemoryCache is a process-local result cache. Entries expire lazily once
// their age reaches the TTL; when full, the oldest inserted entry is evicted.
// Safe for concurrent use.
type MemoryCache struct {
	mu      sync.Mutex
	order   *list.List // front is the oldest insertion
	entries map[string]*list.Element
	opts    MemoryOptions
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache(opts MemoryOptions) *MemoryCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MemoryCache{
		order:   list.New(),
		entries: make(map[string]*list.Element),
		opts:    opts,
	}
}

// Get returns the value under key unless it is missing or expired.
// Expired entries are removed.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*memoryEntry)
	if c.opts.Now().Sub(e.insertedAt) >= e.ttl {
		c.remove(el)
		return nil, false
	}
	return e.value, true
}

// Put stores value under key. A zero ttl uses the cache TTL. Replacing a key
// counts as a new insertion.
func (c *MemoryCache) Put(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.opts.TTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}

	var evicted []string
	for c.order.Len() >= c.opts.MaxEntries {
		oldest := c.order.Front()
		evicted = append(evicted, oldest.Value.(*memoryEntry).key)
		c.remove(oldest)
	}

	c.entries[key] = c.order.PushBack(&memoryEntry{
		key:        key,
		value:      value,
		ttl:        ttl,
		insertedAt: c.opts.Now(),
	})

	if c.opts.OnEvict != nil {
		for _, k := range evicted {
			c.opts.OnEvict(k)
		}
	}
}

// Invalidate removes every key starting with prefix. An empty prefix clears the cache.
func (c *MemoryCache) Invalidate(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(el)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) remove(el *list.Element) {
	e := c.order.Remove(el).(*memoryEntry)
	delete(c.entries, e.key)
}
