package cache

import (
	"testing"
	"time"
)

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to be evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("expected b=2, got %d ok=%v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRURecencyOrder(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")    // a is now most recent
	c.Set("c", 3) // evicts "b"

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)
	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected fresh entry to be present")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)
	c.Set("a", "1")
	c.Set("b", "2")
	time.Sleep(20 * time.Millisecond)
	c.Set("c", "3")

	if cleaned := c.CleanExpired(); cleaned != 2 {
		t.Fatalf("expected 2 cleaned, got %d", cleaned)
	}
	if c.Size() != 1 {
		t.Fatalf("expected 1 remaining, got %d", c.Size())
	}
}

func TestDelete(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to be deleted")
	}
	c.Delete("missing") // no-op
}
