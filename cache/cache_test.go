package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantKey(t *testing.T) {
	assert.Equal(t, "league:7:matchday:3", TenantKey(7, "matchday", "3"))
	assert.Equal(t, "league:7:referees", TenantKey(7, "referees"))
}

func TestCacheGetSet(t *testing.T) {
	c := New(true)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set(TenantKey(1, "referees"), []int{1, 2, 3}, DefaultTTL)
	value, ok := c.Get(TenantKey(1, "referees"))
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, value)
}

func TestCacheExpiry(t *testing.T) {
	c := New(true)
	c.Set("short", "value", 10*time.Millisecond)

	_, ok := c.Get("short")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok)
}

func TestInvalidateTenantDropsOnlyThatLeague(t *testing.T) {
	c := New(true)
	c.Set(TenantKey(1, "matchday", "3"), "a", DefaultTTL)
	c.Set(TenantKey(1, "referees"), "b", DefaultTTL)
	c.Set(TenantKey(2, "referees"), "c", DefaultTTL)

	c.InvalidateTenant(1)

	_, ok := c.Get(TenantKey(1, "matchday", "3"))
	assert.False(t, ok)
	_, ok = c.Get(TenantKey(1, "referees"))
	assert.False(t, ok)

	value, ok := c.Get(TenantKey(2, "referees"))
	require.True(t, ok)
	assert.Equal(t, "c", value)
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c := New(false)
	c.Set("key", "value", DefaultTTL)
	_, ok := c.Get("key")
	assert.False(t, ok)
}
