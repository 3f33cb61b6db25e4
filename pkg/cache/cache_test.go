package cache

import (
	"testing"
	"time"
)

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Hour)
	defer c.Close()

	c.Set("live", 1, time.Hour)
	c.Set("dead", 2, time.Nanosecond)
	c.Set("forever", 3, 0)
	time.Sleep(time.Millisecond)

	if v, ok := c.Get("live"); !ok || v != 1 {
		t.Errorf("expected live entry, got %v %v", v, ok)
	}
	if _, ok := c.Get("dead"); ok {
		t.Error("expected expired entry to be hidden")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Error("expected entry without ttl to stay")
	}

	c.sweep()
	if c.Len() != 2 {
		t.Errorf("expected sweep to drop the expired entry, len = %d", c.Len())
	}
}

func TestCacheTouchAndDeletePrefix(t *testing.T) {
	c := NewCache(time.Hour)
	defer c.Close()

	c.Set("s:1:a", "x", time.Minute)
	c.Set("s:1:b", "y", time.Minute)
	c.Set("s:2:a", "z", time.Minute)

	if !c.Touch("s:1:a", time.Hour) {
		t.Error("expected touch on live entry to succeed")
	}
	if c.Touch("missing", time.Hour) {
		t.Error("expected touch on missing entry to fail")
	}

	if n := c.DeletePrefix("s:1:"); n != 2 {
		t.Errorf("expected 2 deletions, got %d", n)
	}
	if _, ok := c.Get("s:2:a"); !ok {
		t.Error("expected other prefix to survive")
	}

	c.Close()
	c.Close()
}
