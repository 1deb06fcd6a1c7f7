package cache

import (
	"context"
	"sync/atomic"

	obs "github.com/lenagent/go-lenagent/observability"
)

// ComputeFunc produces a response for a request. Conceptually expensive; the
// Dispatcher exists to avoid calling it twice for the same request text.
type ComputeFunc func(ctx context.Context, request string) (string, error)

// Dispatcher serves responses from a Store on exact-match hits and falls back
// to the compute function on misses. Construct one per pipeline and pass it
// explicitly; there is no package-level instance.
type Dispatcher struct {
	store   Store
	compute ComputeFunc

	hits   atomic.Int64
	misses atomic.Int64
}

// NewDispatcher creates a dispatcher over the given store and compute function
func NewDispatcher(store Store, compute ComputeFunc) *Dispatcher {
	return &Dispatcher{store: store, compute: compute}
}

// GetOrCompute returns the cached response for request, or computes, stores
// and returns a fresh one. Compute failures are wrapped in *ComputeError,
// propagated, and never cached.
func (d *Dispatcher) GetOrCompute(ctx context.Context, request string) (string, error) {
	span, ctx := obs.TracerImpl.StartSpan(ctx, "cache.get_or_compute")
	span.SetAttribute(obs.AttrCacheKey, truncate(request, 120))
	defer span.End()

	if cached, ok, err := d.store.Get(ctx, request); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return "", err
	} else if ok {
		d.hits.Add(1)
		obs.MetricsImpl.RecordCacheHit(nil)
		span.SetAttribute(obs.AttrCacheHit, true)
		span.SetStatus(obs.StatusCodeOk, "")
		return cached, nil
	}

	d.misses.Add(1)
	obs.MetricsImpl.RecordCacheMiss(nil)
	span.SetAttribute(obs.AttrCacheHit, false)

	result, err := d.compute(ctx, request)
	if err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return "", &ComputeError{Request: request, Cause: err}
	}

	if err := d.store.Set(ctx, request, result); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return "", err
	}

	span.SetStatus(obs.StatusCodeOk, "")
	return result, nil
}

// Stats reports hit/miss counters since construction
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Hits:   d.hits.Load(),
		Misses: d.misses.Load(),
	}
}

// DispatcherStats holds dispatcher counters
type DispatcherStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Len reports the number of entries in the backing store
func (d *Dispatcher) Len(ctx context.Context) (int, error) {
	return d.store.Len(ctx)
}

// Keys reports the keys in the backing store
func (d *Dispatcher) Keys(ctx context.Context) ([]string, error) {
	return d.store.Keys(ctx)
}
