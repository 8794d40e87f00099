package kv

import (
	"context"
	"testing"
	"time"
)

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(8)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatalf("empty store hit")
	}
	_ = m.Put(ctx, "k", "v1", 0)
	_ = m.Put(ctx, "k", "v2", 0)
	if v, ok, _ := m.Get(ctx, "k"); !ok || v != "v2" {
		t.Fatalf("get = %q %v", v, ok)
	}
	_ = m.Delete(ctx, "k")
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatalf("deleted key hit")
	}
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m, _ := NewMemory(8)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_ = m.Put(ctx, "short", "v", time.Minute)
	_ = m.Put(ctx, "forever", "v", 0)

	now = now.Add(59 * time.Second)
	if _, ok, _ := m.Get(ctx, "short"); !ok {
		t.Fatalf("entry expired early")
	}
	now = now.Add(time.Second)
	if _, ok, _ := m.Get(ctx, "short"); ok {
		t.Fatalf("entry outlived its ttl")
	}
	if m.Len() != 1 {
		t.Fatalf("expired entry should be dropped on read, len = %d", m.Len())
	}
	now = now.Add(24 * 365 * time.Hour)
	if _, ok, _ := m.Get(ctx, "forever"); !ok {
		t.Fatalf("forever entry expired")
	}
}

func TestMemory_Evicts(t *testing.T) {
	ctx := context.Background()
	m, _ := NewMemory(2)
	_ = m.Put(ctx, "a", "1", 0)
	_ = m.Put(ctx, "b", "2", 0)
	_, _, _ = m.Get(ctx, "a") // a is now most recent
	_ = m.Put(ctx, "c", "3", 0)

	if _, ok, _ := m.Get(ctx, "b"); ok {
		t.Fatalf("least recently used key should be evicted")
	}
	if _, ok, _ := m.Get(ctx, "a"); !ok {
		t.Fatalf("recently used key evicted")
	}
}

func TestNewMemory_DefaultSize(t *testing.T) {
	if _, err := NewMemory(0); err != nil {
		t.Fatal(err)
	}
}
