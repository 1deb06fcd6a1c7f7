// Package cache provides exact-match request/response caching for agent and
// model invocations. A Dispatcher wraps a compute function and serves repeat
// requests from a Store without recomputing; CachedClient applies the same
// semantics to an llm.Client.
//
// Keys are the exact request text: no normalization, no eviction, entries
// live for the lifetime of the store. The Dispatcher is not hardened against
// concurrent callers racing to compute the same missing key (both will
// compute; last write wins). Stores themselves are safe for concurrent use.
package cache

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Store is the backing map for cached responses. Implementations live in
// subpackages (inmemory, redis, postgres).
type Store interface {
	// Get returns the cached response for an exact key, and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a response under a key
	Set(ctx context.Context, key string, value string) error

	// Len returns the number of cached entries
	Len(ctx context.Context) (int, error)

	// Keys returns all cached keys
	Keys(ctx context.Context) ([]string, error)

	// Clear removes all cached entries
	Clear(ctx context.Context) error
}

// ComputeError wraps a failure of the underlying compute function. Failures
// are never cached: a later identical request computes from scratch.
type ComputeError struct {
	Request string
	Cause   error
}

// Error implements the error interface
func (e *ComputeError) Error() string {
	return fmt.Sprintf("compute failed for request %q: %v", truncate(e.Request, 80), e.Cause)
}

// Unwrap returns the underlying error
func (e *ComputeError) Unwrap() error {
	return e.Cause
}

// IsComputeError checks if an error is a ComputeError
func IsComputeError(err error) (*ComputeError, bool) {
	if ce, ok := err.(*ComputeError); ok {
		return ce, true
	}
	return nil, false
}

// truncate shortens s to at most max bytes, backing up to a rune boundary so
// multibyte input is never split mid-sequence
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
