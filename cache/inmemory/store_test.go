package inmemory

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestStoreGetSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "q1", "a1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := s.Get(ctx, "q1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if v != "a1" {
		t.Fatalf("expected a1, got %q", v)
	}

	// Overwrite keeps a single entry
	if err := s.Set(ctx, "q1", "a2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.Get(ctx, "q1")
	if v != "a2" {
		t.Fatalf("expected a2 after overwrite, got %q", v)
	}
	if n, _ := s.Len(ctx); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
}

func TestStoreKeysAndClear(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = s.Set(ctx, fmt.Sprintf("k%d", i), "v")
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %v", keys)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := s.Len(ctx); n != 0 {
		t.Fatalf("expected empty store after clear, got %d", n)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n)
			for j := 0; j < 100; j++ {
				_ = s.Set(ctx, key, "value")
				_, _, _ = s.Get(ctx, key)
				_, _ = s.Len(ctx)
			}
		}(i)
	}
	wg.Wait()

	if n, _ := s.Len(ctx); n != 10 {
		t.Fatalf("expected 10 entries, got %d", n)
	}
}
