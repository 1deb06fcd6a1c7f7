package observability

import (
	"time"
)

// Metrics defines the interface for collecting agent metrics
type Metrics interface {
	// IncrementRequests increments the request counter
	IncrementRequests(labels map[string]string)

	// RecordLatency records request latency
	RecordLatency(duration time.Duration, labels map[string]string)

	// IncrementTokensUsed increments token usage counter
	IncrementTokensUsed(tokens int, labels map[string]string)

	// RecordError increments error counter
	RecordError(errorType string, labels map[string]string)

	// RecordCacheHit increments the cache hit counter
	RecordCacheHit(labels map[string]string)

	// RecordCacheMiss increments the cache miss counter
	RecordCacheMiss(labels map[string]string)
}

// NoOpMetrics is a no-operation implementation of Metrics
type NoOpMetrics struct{}

// IncrementRequests implements Metrics interface
func (n *NoOpMetrics) IncrementRequests(labels map[string]string) {}

// RecordLatency implements Metrics interface
func (n *NoOpMetrics) RecordLatency(duration time.Duration, labels map[string]string) {}

// IncrementTokensUsed implements Metrics interface
func (n *NoOpMetrics) IncrementTokensUsed(tokens int, labels map[string]string) {}

// RecordError implements Metrics interface
func (n *NoOpMetrics) RecordError(errorType string, labels map[string]string) {}

// RecordCacheHit implements Metrics interface
func (n *NoOpMetrics) RecordCacheHit(labels map[string]string) {}

// RecordCacheMiss implements Metrics interface
func (n *NoOpMetrics) RecordCacheMiss(labels map[string]string) {}

// DefaultMetrics is a simple in-memory metrics collector
type DefaultMetrics struct {
	requests     int64
	totalLatency time.Duration
	tokensUsed   int64
	errors       map[string]int64
	cacheHits    int64
	cacheMisses  int64
}

// NewDefaultMetrics creates a new DefaultMetrics instance
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{
		errors: make(map[string]int64),
	}
}

// IncrementRequests implements Metrics interface
func (m *DefaultMetrics) IncrementRequests(labels map[string]string) {
	m.requests++
}

// RecordLatency implements Metrics interface
func (m *DefaultMetrics) RecordLatency(duration time.Duration, labels map[string]string) {
	m.totalLatency += duration
}

// IncrementTokensUsed implements Metrics interface
func (m *DefaultMetrics) IncrementTokensUsed(tokens int, labels map[string]string) {
	m.tokensUsed += int64(tokens)
}

// RecordError implements Metrics interface
func (m *DefaultMetrics) RecordError(errorType string, labels map[string]string) {
	m.errors[errorType]++
}

// RecordCacheHit implements Metrics interface
func (m *DefaultMetrics) RecordCacheHit(labels map[string]string) {
	m.cacheHits++
}

// RecordCacheMiss implements Metrics interface
func (m *DefaultMetrics) RecordCacheMiss(labels map[string]string) {
	m.cacheMisses++
}

// GetStats returns current statistics
func (m *DefaultMetrics) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"requests":      m.requests,
		"total_latency": m.totalLatency.String(),
		"tokens_used":   m.tokensUsed,
		"errors":        m.errors,
		"cache_hits":    m.cacheHits,
		"cache_misses":  m.cacheMisses,
	}
}

// Ensure implementations satisfy the interface
var _ Metrics = (*NoOpMetrics)(nil)
var _ Metrics = (*DefaultMetrics)(nil)
