package distribution

import (
	"strconv"
	"strings"
	"sync"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
)

// DefaultCacheSize bounds the calculator cache.
const DefaultCacheSize = 100

// Cache is a bounded map that evicts the oldest inserted entry when full.
// Reads never reorder entries.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]Bundle
	order    []string // insertion order, oldest first

	hits, misses int
}

// NewCache returns an empty cache; capacity <= 0 means DefaultCacheSize.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]Bundle, capacity),
	}
}

func (c *Cache) get(key string) (Bundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return b, ok
}

func (c *Cache) put(key string, b Bundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		// a concurrent miss computed the same value first
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = b
	c.order = append(c.order, key)
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Entries int `json:"entries"`
}

func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// Key concatenates every field that feeds an aggregate.
func Key(g *gameplan.Gameplan) string {
	var b strings.Builder
	b.Grow(256)
	w := func(vs ...int) {
		for _, v := range vs {
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(',')
		}
	}
	for _, f := range g.OffFormations {
		w(f.TraditionalRun, f.OptionRun, f.RPO, f.Pass)
	}
	w(g.Run.Normal()...)
	w(g.Run.Draws()...)
	w(g.Option.Values()...)
	p := g.Pass
	w(p.Quick, p.Short, p.Long, p.Deep, p.Screen, p.PAShort, p.PALong, p.PADeep)
	r := g.RPO
	w(r.ChoiceOutside, r.ChoiceInside, r.ChoicePower, r.PeekOutside, r.PeekInside, r.PeekPower)
	for _, s := range g.Targeting.WR {
		w(s.Weight)
	}
	for _, s := range g.Targeting.TE {
		w(s.Weight)
	}
	for _, s := range g.Targeting.RB {
		w(s.Weight)
	}
	w(g.Targeting.FB.Weight)
	w(g.Runners.QB)
	w(g.Runners.RB[:]...)
	w(g.Runners.FB, g.Runners.WR)
	return b.String()
}

// Calculator computes bundles through an optional cache.
type Calculator struct {
	cache *Cache
}

// NewCalculator wraps cache; a nil cache computes every call.
func NewCalculator(cache *Cache) *Calculator {
	return &Calculator{cache: cache}
}

// Compute returns the bundle for g, reusing a cached bundle for identical field values.
func (c *Calculator) Compute(g *gameplan.Gameplan) Bundle {
	if c == nil || c.cache == nil {
		return Compute(g)
	}
	key := Key(g)
	if b, ok := c.cache.get(key); ok {
		return b
	}
	b := Compute(g)
	c.cache.put(key, b)
	return b
}

// Stats reports the cache counters; zero when uncached.
func (c *Calculator) Stats() CacheStats {
	if c == nil || c.cache == nil {
		return CacheStats{}
	}
	return c.cache.Stats()
}
