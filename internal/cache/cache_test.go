package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/mall-service/internal/config"
)

func newTestCache(t *testing.T, maxEntries int) (*TokenCache, *time.Time) {
	t.Helper()
	c := New(config.TokenCacheConfig{
		InitialCapacity: 16,
		MaxEntries:      maxEntries,
		TTLHours:        12,
	}, nil)

	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestSetThenGet(t *testing.T) {
	c, _ := newTestCache(t, 100)

	c.Set("token_alice", "abc123")
	value, ok := c.Get("token_alice")
	require.True(t, ok)
	assert.Equal(t, "abc123", value)
}

func TestGetNeverSet(t *testing.T) {
	c, _ := newTestCache(t, 100)

	_, ok := c.Get("token_ghost")
	assert.False(t, ok)
}

func TestOverwriteReplacesValue(t *testing.T) {
	c, _ := newTestCache(t, 100)

	c.Set("token_alice", "first")
	c.Set("token_alice", "second")
	value, ok := c.Get("token_alice")
	require.True(t, ok)
	assert.Equal(t, "second", value)
	assert.Equal(t, 1, c.Len())
}

func TestExpiresAfterAccessTTL(t *testing.T) {
	c, now := newTestCache(t, 100)

	c.Set("token_bob", "tok")
	*now = now.Add(12*time.Hour - time.Minute)
	_, ok := c.Get("token_bob")
	require.True(t, ok, "entry inside the TTL window must be live")

	// the hit above refreshed the access time; age past the full TTL now
	*now = now.Add(12 * time.Hour)
	_, ok = c.Get("token_bob")
	assert.False(t, ok, "entry unaccessed past the TTL must report absent")
}

func TestSetRefreshesAccessTime(t *testing.T) {
	c, now := newTestCache(t, 100)

	c.Set("token_bob", "tok")
	*now = now.Add(8 * time.Hour)
	c.Set("token_bob", "tok")
	*now = now.Add(8 * time.Hour)

	_, ok := c.Get("token_bob")
	assert.True(t, ok, "overwrite must reset the expiry window")
}

func TestEvictsLeastRecentlyAccessed(t *testing.T) {
	c, _ := newTestCache(t, 3)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	// touch "a" so "b" becomes the coldest entry
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", "4")

	_, ok = c.Get("b")
	assert.False(t, ok, "least-recently-accessed entry must be evicted")
	for _, key := range []string{"a", "c", "d"} {
		_, ok := c.Get(key)
		assert.True(t, ok, "entry %q must survive eviction", key)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(config.TokenCacheConfig{MaxEntries: 128, TTLHours: 12}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("token_user%d", j%32)
				c.Set(key, fmt.Sprintf("%d-%d", worker, j))
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 128)
}

func TestTokenKey(t *testing.T) {
	assert.Equal(t, "token_alice", TokenKey("alice"))
}
