package cache

import (
	"errors"
	"testing"
	"time"
)

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string, int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted as least recently used")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("expected a=1, got %v (ok=%v)", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU[string, int](2, 0)
	c.Set("a", 1)
	c.Set("a", 5)
	if v, _ := c.Get("a"); v != 5 || c.Len() != 1 {
		t.Errorf("expected single entry a=5, got %v len=%d", v, c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU[string, int](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)

	now = now.Add(30 * time.Second)
	c.Set("b", 3)

	now = now.Add(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to expire")
	}
	if removed := c.CleanExpired(); removed != 0 {
		t.Errorf("expected nothing else expired, removed %d", removed)
	}

	now = now.Add(time.Minute)
	if removed := c.CleanExpired(); removed != 1 || c.Len() != 0 {
		t.Errorf("expected b to be cleaned, removed %d len %d", removed, c.Len())
	}
}

func TestGetOrCreate(t *testing.T) {
	c := NewLRU[string, int](4, 0)
	calls := 0
	build := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCreate("k", build)
		if err != nil || v != 42 {
			t.Fatalf("unexpected result %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected one build, got %d", calls)
	}

	_, err := c.GetOrCreate("bad", func() (int, error) { return 0, errors.New("boom") })
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("errors must not be cached")
	}
}
