package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_SetAndGet(t *testing.T) {
	m := NewMemory(DefaultMemoryConfig())
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), time.Minute)

	data, ok := m.Get(ctx, "k")
	if !ok || string(data) != "v" {
		t.Fatalf("Get() = %q, %v", data, ok)
	}

	// callers may mutate what they get back
	data[0] = 'X'
	if again, _ := m.Get(ctx, "k"); string(again) != "v" {
		t.Errorf("stored payload was mutated through Get(): %q", again)
	}
}

func TestMemory_PerEntryTTL(t *testing.T) {
	m := NewMemory(DefaultMemoryConfig())
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.Set(ctx, "short", []byte("1"), 10*time.Second)
	m.Set(ctx, "long", []byte("2"), 10*time.Minute)

	now = now.Add(11 * time.Second)

	if _, ok := m.Get(ctx, "short"); ok {
		t.Error("short entry should have expired")
	}
	if _, ok := m.Get(ctx, "long"); !ok {
		t.Error("long entry should still be cached")
	}
}

func TestMemory_SetIgnoresNonPositiveTTL(t *testing.T) {
	m := NewMemory(DefaultMemoryConfig())

	m.Set(context.Background(), "k", []byte("v"), -time.Second)

	if m.Size() != 0 {
		t.Errorf("Size() = %d, want 0", m.Size())
	}
}

func TestMemory_DeleteAndDeletePrefix(t *testing.T) {
	m := NewMemory(DefaultMemoryConfig())
	ctx := context.Background()

	m.Set(ctx, "catalog:products_list:page=1", []byte("a"), time.Minute)
	m.Set(ctx, "catalog:products_list:page=2", []byte("b"), time.Minute)
	m.Set(ctx, "catalog:product_detail:product_id=1", []byte("c"), time.Minute)
	m.Set(ctx, "catalog:products_stats", []byte("d"), time.Minute)

	m.DeletePrefix(ctx, OperationPrefix("products_list"))

	if _, ok := m.Get(ctx, "catalog:products_list:page=1"); ok {
		t.Error("page=1 survived DeletePrefix()")
	}
	if _, ok := m.Get(ctx, "catalog:products_list:page=2"); ok {
		t.Error("page=2 survived DeletePrefix()")
	}
	if _, ok := m.Get(ctx, "catalog:product_detail:product_id=1"); !ok {
		t.Error("detail entry removed by list prefix")
	}

	m.Delete(ctx, "catalog:products_stats")
	if _, ok := m.Get(ctx, "catalog:products_stats"); ok {
		t.Error("Delete() left entry")
	}
}

func TestNoop(t *testing.T) {
	var s Store = Noop{}
	ctx := context.Background()

	s.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Error("Noop should always miss")
	}
	if s.Available(ctx) {
		t.Error("Noop should report unavailable")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
