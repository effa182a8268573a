package aigate

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	cacheKeyLen       = 100
	DefaultCacheTTL   = 60 * time.Second
	DefaultCacheMax   = 1000
	DefaultCacheEvict = 200
)

type cacheEntry struct {
	verdict Verdict
	addedAt time.Time
}

// DecisionCache memoizes classifier verdicts keyed by a normalized content
// prefix. Entries expire after TTL; when the map exceeds Max entries the
// Evict oldest are dropped in one batch. Overwrites are idempotent, so the
// mutex only guards map integrity, not any ordering.
type DecisionCache struct {
	TTL   time.Duration
	Max   int
	Evict int

	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewDecisionCache() *DecisionCache {
	return &DecisionCache{
		TTL:     DefaultCacheTTL,
		Max:     DefaultCacheMax,
		Evict:   DefaultCacheEvict,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// CacheKey derives the lookup key from normalized text: lowercased and
// truncated so trivial tail variations still share an entry.
func CacheKey(normalized string) string {
	k := strings.ToLower(normalized)
	if len(k) > cacheKeyLen {
		k = k[:cacheKeyLen]
	}
	return k
}

func (c *DecisionCache) Get(key string) (Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Verdict{}, false
	}
	if c.now().Sub(e.addedAt) >= c.TTL {
		delete(c.entries, key)
		return Verdict{}, false
	}
	return e.verdict, true
}

func (c *DecisionCache) Put(key string, v Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{verdict: v, addedAt: c.now()}
	if len(c.entries) <= c.Max {
		return
	}

	type aged struct {
		key string
		at  time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.addedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	n := c.Evict
	if n > len(all) {
		n = len(all)
	}
	for _, a := range all[:n] {
		delete(c.entries, a.key)
	}
}

func (c *DecisionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
