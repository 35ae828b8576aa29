package engine

import "fmt"

// CachePolicy decides which child positions go through the
// transposition cache.
type CachePolicy int

const (
	CacheOff CachePolicy = iota
	// CacheEndgame uses the cache only when the child position is an
	// endgame, where transpositions are most frequent.
	CacheEndgame
	CacheAlways
)

func (p CachePolicy) String() string {
	switch p {
	case CacheOff:
		return "off"
	case CacheEndgame:
		return "endgame"
	case CacheAlways:
		return "always"
	default:
		return "unknown"
	}
}

// ParseCachePolicy is the inverse of CachePolicy.String.
func ParseCachePolicy(s string) (CachePolicy, error) {
	for _, p := range []CachePolicy{CacheOff, CacheEndgame, CacheAlways} {
		if p.String() == s {
			return p, nil
		}
	}
	return CacheOff, fmt.Errorf("unknown cache policy %q", s)
}

// Cache maps a position fingerprint to the score found for it, from the
// point of view of the side to move in that position.
//
// Entries carry neither depth nor bound type, so a value computed by a
// shallow or narrow search is reused for deeper or wider ones. Scores can
// be inexact, and a mate first seen by a deeper iteration stays hidden
// behind the shallow entry.
type Cache struct {
	entries  map[uint64]int
	capacity int
	hits     uint64
}

// NewCache returns an empty cache. A positive capacity bounds the number
// of entries; once full, further puts are dropped.
func NewCache(capacity int) *Cache {
	hint := capacity
	if hint <= 0 || hint > 1<<16 {
		hint = 1 << 12
	}
	return &Cache{
		entries:  make(map[uint64]int, hint),
		capacity: capacity,
	}
}

func (c *Cache) Get(fingerprint uint64) (int, bool) {
	score, ok := c.entries[fingerprint]
	if ok {
		c.hits++
	}
	return score, ok
}

// Put stores score unless the fingerprint is already present.
func (c *Cache) Put(fingerprint uint64, score int) {
	if _, ok := c.entries[fingerprint]; ok {
		return
	}
	if c.capacity > 0 && len(c.entries) >= c.capacity {
		return
	}
	c.entries[fingerprint] = score
}

func (c *Cache) Len() int     { return len(c.entries) }
func (c *Cache) Hits() uint64 { return c.hits }

func (c *Cache) Reset() {
	clear(c.entries)
	c.hits = 0
}
