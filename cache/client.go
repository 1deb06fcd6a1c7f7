package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lenagent/go-lenagent/llm"
)

// chatRequestKey carries the live *llm.ChatRequest across the Dispatcher's
// string-keyed compute callback. The dispatcher key is a digest of the
// request, so the request itself travels on the context.
type chatRequestKey struct{}

// freshResponse collects the provider response on a miss so the caller gets
// it back without a marshal round-trip.
type freshResponse struct {
	resp *llm.Response
}

type freshResponseKey struct{}

// CachedClient decorates an llm.Client with exact-match response caching, the
// same way an orchestration layer's process-wide LLM cache behaves: an
// identical request (model, messages, sampling parameters) is answered from
// the store without reaching the provider. All hit/miss bookkeeping and the
// never-cache-failures rule live in the Dispatcher this client composes.
type CachedClient struct {
	inner      llm.Client
	dispatcher *Dispatcher
}

// NewCachedClient wraps inner with a response cache backed by store
func NewCachedClient(inner llm.Client, store Store) *CachedClient {
	c := &CachedClient{inner: inner}
	c.dispatcher = NewDispatcher(store, c.compute)
	return c
}

// compute is the Dispatcher's miss path: call the provider and serialize the
// response for storage. Provider failures propagate and are never cached.
func (c *CachedClient) compute(ctx context.Context, request string) (string, error) {
	req, ok := ctx.Value(chatRequestKey{}).(*llm.ChatRequest)
	if !ok {
		return "", fmt.Errorf("no chat request bound for key %s", request)
	}

	resp, err := c.inner.Chat(ctx, req)
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}

	if holder, ok := ctx.Value(freshResponseKey{}).(*freshResponse); ok {
		holder.resp = resp
	}
	return string(raw), nil
}

// Chat implements llm.Client interface
func (c *CachedClient) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	key := RequestKey(req)
	holder := &freshResponse{}
	ctx = context.WithValue(ctx, chatRequestKey{}, req)
	ctx = context.WithValue(ctx, freshResponseKey{}, holder)

	raw, err := c.dispatcher.GetOrCompute(ctx, key)
	if err != nil {
		// Surface the provider error itself so llm error predicates keep
		// working; the next identical request retries the provider
		if ce, ok := IsComputeError(err); ok {
			return nil, ce.Cause
		}
		return nil, err
	}

	// Miss: hand back the provider response as-is
	if holder.resp != nil {
		return holder.resp, nil
	}

	// Hit: rebuild from the stored serialization and mark it
	var resp llm.Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, err
	}
	if resp.Meta == nil {
		resp.Meta = map[string]string{}
	}
	resp.Meta["cache"] = "hit"
	return &resp, nil
}

// Completion implements llm.Client interface
func (c *CachedClient) Completion(ctx context.Context, prompt string) (*llm.Response, error) {
	req := &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	}
	return c.Chat(ctx, req)
}

// Stream implements llm.Client interface. Streaming bypasses the cache and
// delegates to the inner client.
func (c *CachedClient) Stream(ctx context.Context, req *llm.ChatRequest, output chan<- *llm.Response) error {
	return c.inner.Stream(ctx, req, output)
}

// Model implements llm.Client interface
func (c *CachedClient) Model() string { return c.inner.Model() }

// Provider implements llm.Client interface
func (c *CachedClient) Provider() llm.Provider { return c.inner.Provider() }

// Validate implements llm.Client interface
func (c *CachedClient) Validate() error { return c.inner.Validate() }

// Stats reports the composed dispatcher's hit/miss counters
func (c *CachedClient) Stats() DispatcherStats {
	return c.dispatcher.Stats()
}

var _ llm.Client = (*CachedClient)(nil)
