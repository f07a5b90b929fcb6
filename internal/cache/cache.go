// Package cache implements the in-process store that stages one-time password
// reset tokens between the answer-security-question step and the reset step.
// It is a size-bounded LRU with expire-after-access semantics: map index for
// O(1) lookup, doubly-linked list for recency order.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/spec-kit/mall-service/internal/config"
)

// TokenPrefix namespaces reset tokens by username.
const TokenPrefix = "token_"

// TokenKey builds the cache key for a username's reset token.
func TokenKey(username string) string {
	return TokenPrefix + username
}

// Recorder receives cache statistics. Implementations must tolerate a nil
// receiver; observability.Metrics satisfies this.
type Recorder interface {
	RecordCacheHit()
	RecordCacheMiss()
	RecordCacheEviction()
}

type entry struct {
	key        string
	value      string
	lastAccess time.Time
}

// TokenCache is safe for concurrent use. One instance lives for the process
// lifetime; entries age out, there is no teardown.
type TokenCache struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	entries    map[string]*list.Element
	order      *list.List // front is most recently accessed

	recorder Recorder
	now      func() time.Time
}

// New builds a TokenCache from configuration. A nil recorder disables stats.
func New(cfg config.TokenCacheConfig, recorder Recorder) *TokenCache {
	initial := cfg.InitialCapacity
	if initial <= 0 {
		initial = 1000
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &TokenCache{
		maxEntries: maxEntries,
		ttl:        cfg.TTL(),
		entries:    make(map[string]*list.Element, initial),
		order:      list.New(),
		recorder:   recorder,
		now:        time.Now,
	}
}

// Set inserts or overwrites the association for key and refreshes its access
// time. Exceeding the capacity bound evicts the least-recently-accessed entry.
func (c *TokenCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.lastAccess = c.now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&entry{key: key, value: value, lastAccess: c.now()})
	c.entries[key] = elem

	for len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

// Get returns the live value for key. Absence is a normal outcome: a key that
// was never set, was evicted, or has gone unaccessed past the TTL all report
// ok == false. A hit refreshes the entry's access time.
func (c *TokenCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.recordMiss()
		return "", false
	}

	ent := elem.Value.(*entry)
	if c.expired(ent) {
		c.remove(elem)
		c.recordMiss()
		return "", false
	}

	ent.lastAccess = c.now()
	c.order.MoveToFront(elem)
	c.recordHit()
	return ent.value, true
}

// Len reports the number of physically present entries, expired or not.
func (c *TokenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TokenCache) expired(ent *entry) bool {
	return c.ttl > 0 && c.now().Sub(ent.lastAccess) >= c.ttl
}

func (c *TokenCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	c.remove(elem)
	if c.recorder != nil {
		c.recorder.RecordCacheEviction()
	}
}

func (c *TokenCache) remove(elem *list.Element) {
	ent := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.entries, ent.key)
}

func (c *TokenCache) recordHit() {
	if c.recorder != nil {
		c.recorder.RecordCacheHit()
	}
}

func (c *TokenCache) recordMiss() {
	if c.recorder != nil {
		c.recorder.RecordCacheMiss()
	}
}
