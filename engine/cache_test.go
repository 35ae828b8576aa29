package engine

import "testing"

func TestCacheFirstWriteWins(t *testing.T) {
	c := NewCache(0)
	c.Put(7, 100)
	c.Put(7, -40)

	got, ok := c.Get(7)
	if !ok || got != 100 {
		t.Fatalf("Get(7) = %d, %v; want 100, true", got, ok)
	}
	if _, ok := c.Get(8); ok {
		t.Fatalf("unexpected entry for 8")
	}
	if c.Hits() != 1 {
		t.Fatalf("hits = %d, want 1", c.Hits())
	}
}

func TestCacheCapacity(t *testing.T) {
	c := NewCache(2)
	for fp := uint64(1); fp <= 5; fp++ {
		c.Put(fp, int(fp))
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get(3); ok {
		t.Fatalf("entry stored past capacity")
	}

	c.Reset()
	if c.Len() != 0 || c.Hits() != 0 {
		t.Fatalf("reset left %d entries, %d hits", c.Len(), c.Hits())
	}
}

func TestCachePolicy(t *testing.T) {
	tests := []struct {
		policy  CachePolicy
		endgame bool
		want    bool
	}{
		{CacheEndgame, true, true},
		{CacheEndgame, false, false},
		{CacheAlways, false, true},
		{CacheOff, true, false},
	}
	for _, tt := range tests {
		s := newSearch(newTreePosition(leaf(0)), nodeEvaluator{endgame: tt.endgame}, Config{Cache: tt.policy})
		if got := s.usesCache(); got != tt.want {
			t.Errorf("%v with endgame=%v: usesCache = %v, want %v", tt.policy, tt.endgame, got, tt.want)
		}
	}
}

func TestParseCachePolicy(t *testing.T) {
	for _, p := range []CachePolicy{CacheOff, CacheEndgame, CacheAlways} {
		got, err := ParseCachePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseCachePolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseCachePolicy("sometimes"); err == nil {
		t.Errorf("expected an error for an unknown policy")
	}
}
