// Package cache provides an in-memory memoization cache with a fixed TTL and
// LRU eviction.
package cache

import (
	"container/list"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TTLCache maps string keys to values for a fixed duration. Entries are never
// invalidated manually; they expire TTL after being stored and are dropped
// lazily on access. With a positive MaxEntries the least recently used entry
// is evicted once the cap is reached; otherwise nothing leaves before its TTL.
// Safe for concurrent use.
type TTLCache[V any] struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	lru        *list.List
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	onEvict    func(reason string)

	logger *zap.Logger
}

type entry[V any] struct {
	key    string
	value  V
	expiry time.Time
}

// Eviction reasons passed to the hook set with WithEvictionHook.
const (
	EvictExpired  = "expired"
	EvictCapacity = "capacity"
)

type Option[V any] func(*TTLCache[V])

// WithClock replaces time.Now, for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTLCache[V]) { c.now = now }
}

func WithLogger[V any](logger *zap.Logger) Option[V] {
	return func(c *TTLCache[V]) { c.logger = logger }
}

// WithEvictionHook is called, under the cache lock, whenever an entry is
// dropped because it expired or because the cache was full.
func WithEvictionHook[V any](hook func(reason string)) Option[V] {
	return func(c *TTLCache[V]) { c.onEvict = hook }
}

// New creates a cache. maxEntries <= 0 means unbounded.
func New[V any](ttl time.Duration, maxEntries int, opts ...Option[V]) *TTLCache[V] {
	c := &TTLCache[V]{
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		onEvict:    func(string) {},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := el.Value.(*entry[V])
	if !c.now().Before(e.expiry) {
		c.remove(el)
		c.onEvict(EvictExpired)
		c.logger.Debug("Cache entry expired", zap.String("key", key))
		return zero, false
	}

	c.lru.MoveToFront(el)
	return e.value, true
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.remove(el)
	}

	for c.maxEntries > 0 && len(c.items) >= c.maxEntries && c.lru.Len() > 0 {
		c.remove(c.lru.Back())
		c.onEvict(EvictCapacity)
	}

	el := c.lru.PushFront(&entry[V]{key: key, value: value, expiry: c.now().Add(c.ttl)})
	c.items[key] = el
}

// Len counts stored entries, including expired ones not yet dropped.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[V]) remove(el *list.Element) {
	e := el.Value.(*entry[V])
	c.lru.Remove(el)
	delete(c.items, e.key)
}
