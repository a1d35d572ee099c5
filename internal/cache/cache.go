// Package cache provides a small TTL cache for read-mostly lookups (active
// slot lists, slot-by-id). It is an optimization only: callers must behave
// identically with a nil *TTL, and every slot mutation invalidates through
// explicit hooks.
package cache

import (
	"strconv"
	"sync"
	"time"
)

// Well-known keys used by the slot service.
const (
	KeyActiveSlots = "slots:active"
	slotKeyPrefix  = "slot:"
)

// SlotKey builds the per-slot cache key.
func SlotKey(id int64) string {
	return slotKeyPrefix + strconv.FormatInt(id, 10)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// TTL is a mutex-guarded map with per-entry expiry. The zero value is not
// usable; call New. A nil *TTL is a valid no-op cache.
type TTL struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *TTL {
	return &TTL{entries: make(map[string]entry), now: time.Now}
}

func (c *TTL) Set(key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *TTL) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *TTL) Delete(keys ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

func (c *TTL) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
