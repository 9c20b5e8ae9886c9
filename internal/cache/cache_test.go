package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/realtyflow/api/internal/cache"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Set(ctx, "k", []byte("v1"))

	got, ok := c.Get(ctx, "k")

	if !ok || string(got) != "v1" {
		t.Fatalf("got %q ok=%v, want v1", got, ok)
	}

	c.Set(ctx, "k", []byte("v2"))

	got, _ = c.Get(ctx, "k")

	if string(got) != "v2" {
		t.Fatalf("overwrite failed: %q", got)
	}

	c.Delete(ctx, "k")

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("deleted key still present")
	}

	// deleting a missing key is a no-op
	c.Delete(ctx, "k")
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(20 * time.Millisecond)

	c.Set(ctx, "k", []byte("v"))

	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("entry missing before ttl")
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("entry survived past ttl")
	}
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))

	c.Clear()

	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("clear left entries behind")
	}
}
