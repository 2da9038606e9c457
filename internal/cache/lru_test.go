package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("expected least recently used key to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if n := c.size(); n != 2 {
		t.Errorf("size() = %d, want 2", n)
	}
}

func TestLRUCacheExpires(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set("k", "v")
	current = current.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to be gone")
	}

	c.Set("x", "1")
	c.Set("y", "2")
	current = current.Add(2 * time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired() = %d, want 2", n)
	}
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache(10, time.Minute)

	m.Set(ctx, EventKey(1, "summary"), []byte("a"))
	m.Set(ctx, EventKey(1, "balance"), []byte("b"))
	m.Set(ctx, EventKey(12, "summary"), []byte("c"))
	m.Set(ctx, GlobalKey("general-stats"), []byte("d"))

	if err := m.DeletePrefix(ctx, EventPrefix(1)); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := m.Get(ctx, EventKey(1, "summary")); ok {
		t.Error("event 1 summary survived")
	}
	if _, ok, _ := m.Get(ctx, EventKey(12, "summary")); !ok {
		t.Error("event 12 summary was dropped by event 1 prefix")
	}
	if _, ok, _ := m.Get(ctx, GlobalKey("general-stats")); !ok {
		t.Error("global report was dropped by event prefix")
	}

	m.DeletePrefix(ctx, AllPrefix())
	if _, ok, _ := m.Get(ctx, GlobalKey("general-stats")); ok {
		t.Error("AllPrefix left entries behind")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache(10, time.Minute)

	m.Set(ctx, EventKey(1, "summary"), []byte("a"))
	m.Set(ctx, EventKey(1, "balance"), []byte("b"))

	if err := m.Delete(ctx, EventKey(1, "summary")); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, EventKey(1, "summary")); ok {
		t.Error("deleted key still cached")
	}
	if _, ok, _ := m.Get(ctx, EventKey(1, "balance")); !ok {
		t.Error("Delete dropped a neighbouring key")
	}
	if err := m.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}
