package cache

import (
	"strings"
	"sync"
	"time"
)

type Item struct {
	Value      any
	Expiration int64
}

func (i Item) expired(now int64) bool {
	return i.Expiration > 0 && now > i.Expiration
}

// Cache is an in-memory TTL map swept once per gcInterval.
type Cache struct {
	items map[string]Item
	mu    sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

func NewCache(gcInterval time.Duration) *Cache {
	cache := &Cache{
		items: make(map[string]Item),
		stop:  make(chan struct{}),
	}
	go cache.startGC(gcInterval)
	return cache
}

// Set stores value for duration. A non-positive duration never expires.
func (c *Cache) Set(key string, value any, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiration int64
	if duration > 0 {
		expiration = time.Now().Add(duration).UnixNano()
	}
	c.items[key] = Item{
		Value:      value,
		Expiration: expiration,
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || item.expired(time.Now().UnixNano()) {
		return nil, false
	}
	return item.Value, true
}

// Touch extends a live entry by duration.
func (c *Cache) Touch(key string, duration time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found || item.expired(time.Now().UnixNano()) {
		return false
	}
	item.Expiration = time.Now().Add(duration).UnixNano()
	c.items[key] = item
	return true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// CountPrefix counts the live entries whose key starts with prefix.
func (c *Cache) CountPrefix(prefix string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now().UnixNano()
	var n int
	for k, item := range c.items {
		if strings.HasPrefix(k, prefix) && !item.expired(now) {
			n++
		}
	}
	return n
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	now := time.Now().UnixNano()
	c.mu.Lock()
	for k, v := range c.items {
		if v.expired(now) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
