package observability

import (
	"testing"
	"time"
)

func TestDefaultMetrics(t *testing.T) {
	m := NewDefaultMetrics()

	m.IncrementRequests(nil)
	m.IncrementRequests(map[string]string{"agent": "lenagent"})
	m.RecordLatency(10*time.Millisecond, nil)
	m.IncrementTokensUsed(42, nil)
	m.RecordError("tool_error", nil)
	m.RecordError("tool_error", nil)
	m.RecordCacheHit(nil)
	m.RecordCacheMiss(nil)
	m.RecordCacheMiss(nil)

	stats := m.GetStats()
	if stats["requests"] != int64(2) {
		t.Errorf("expected 2 requests, got %v", stats["requests"])
	}
	if stats["tokens_used"] != int64(42) {
		t.Errorf("expected 42 tokens, got %v", stats["tokens_used"])
	}
	if stats["cache_hits"] != int64(1) {
		t.Errorf("expected 1 cache hit, got %v", stats["cache_hits"])
	}
	if stats["cache_misses"] != int64(2) {
		t.Errorf("expected 2 cache misses, got %v", stats["cache_misses"])
	}
	errs, ok := stats["errors"].(map[string]int64)
	if !ok || errs["tool_error"] != 2 {
		t.Errorf("expected 2 tool errors, got %v", stats["errors"])
	}
}

func TestNoOpMetrics(t *testing.T) {
	// No-op implementation must be safe to call with nil labels
	var m Metrics = &NoOpMetrics{}
	m.IncrementRequests(nil)
	m.RecordLatency(time.Second, nil)
	m.IncrementTokensUsed(10, nil)
	m.RecordError("x", nil)
	m.RecordCacheHit(nil)
	m.RecordCacheMiss(nil)
}
