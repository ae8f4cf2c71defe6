// Package cache provides a small in-memory TTL cache for read views,
// keyed per tenant so that a crew commit can drop every dependent view
// of one league in a single call.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL покрывает списки матчей и судей; записи в любом случае
	// сбрасываются при коммите бригады.
	DefaultTTL    = 5 * time.Minute
	evictInterval = time.Minute
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
func New(enabled bool) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		enabled: enabled,
	}
	if enabled {
		go c.evictLoop()
	}
	return c
}

// TenantKey собирает ключ вида "league:<id>:<view>".
func TenantKey(leagueID int, parts ...string) string {
	return fmt.Sprintf("league:%d:%s", leagueID, strings.Join(parts, ":"))
}

func (c *Cache) Get(key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// InvalidateTenant удаляет все записи лиги.
func (c *Cache) InvalidateTenant(leagueID int) {
	if !c.enabled {
		return
	}
	prefix := fmt.Sprintf("league:%d:", leagueID)
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) evictLoop() {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
