package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lenagent/go-lenagent/llm"
)

// countingClient records Chat invocations and returns scripted responses
type countingClient struct {
	calls     int
	responses []llm.Response
	err       error
}

func (c *countingClient) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if len(c.responses) == 0 {
		return &llm.Response{Content: "default", Role: "assistant", Provider: llm.ProviderOpenAI}, nil
	}
	resp := c.responses[0]
	if len(c.responses) > 1 {
		c.responses = c.responses[1:]
	}
	return &resp, nil
}

func (c *countingClient) Completion(ctx context.Context, prompt string) (*llm.Response, error) {
	return c.Chat(ctx, &llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: prompt}}})
}

func (c *countingClient) Stream(ctx context.Context, req *llm.ChatRequest, output chan<- *llm.Response) error {
	defer close(output)
	resp, err := c.Chat(ctx, req)
	if err != nil {
		return err
	}
	output <- resp
	return nil
}

func (c *countingClient) Model() string          { return "counting-model" }
func (c *countingClient) Provider() llm.Provider { return llm.ProviderOpenAI }
func (c *countingClient) Validate() error        { return nil }

var _ llm.Client = (*countingClient)(nil)

func TestCachedClientServesRepeatFromCache(t *testing.T) {
	inner := &countingClient{responses: []llm.Response{{
		Content:  "The length of 'hello' is 5.",
		Role:     "assistant",
		Provider: llm.ProviderOpenAI,
	}}}
	cached := NewCachedClient(inner, newMapStore())

	ctx := context.Background()
	req := &llm.ChatRequest{
		Model: "gpt-4o-mini",
		Messages: []llm.Message{
			{Role: "system", Content: "You are a helpful assistant"},
			{Role: "user", Content: "What is the length of the word 'hello'?"},
		},
	}

	first, err := cached.Chat(ctx, req)
	if err != nil {
		t.Fatalf("first chat: %v", err)
	}
	second, err := cached.Chat(ctx, req)
	if err != nil {
		t.Fatalf("second chat: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", inner.calls)
	}
	if first.Content != second.Content {
		t.Fatalf("responses differ: %q vs %q", first.Content, second.Content)
	}
	if second.Meta["cache"] != "hit" {
		t.Fatalf("expected cache hit marker on repeat, got %v", second.Meta)
	}
	if first.Meta["cache"] == "hit" {
		t.Fatal("first response should not be marked as a hit")
	}

	stats := cached.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", stats)
	}
}

func TestCachedClientStoresUnderRequestKey(t *testing.T) {
	inner := &countingClient{}
	store := newMapStore()
	cached := NewCachedClient(inner, store)
	ctx := context.Background()
	req := &llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "length of 'hello'"}}}

	fresh, err := cached.Chat(ctx, req)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	raw, ok, err := store.Get(ctx, RequestKey(req))
	if err != nil || !ok {
		t.Fatalf("expected entry under the request key, got ok=%v err=%v", ok, err)
	}
	var stored llm.Response
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored value is not a serialized response: %v", err)
	}
	if stored.Content != fresh.Content {
		t.Fatalf("stored %q, served %q", stored.Content, fresh.Content)
	}
}

func TestCachedClientProviderErrorSurfacedDirectly(t *testing.T) {
	provErr := llm.NewLLMError(llm.ProviderOpenAI, llm.ErrorTypeRateLimit, "slow down")
	inner := &countingClient{err: provErr}
	cached := NewCachedClient(inner, newMapStore())

	_, err := cached.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected provider error")
	}
	// The caching layer must not hide the provider error behind its own type
	if _, ok := IsComputeError(err); ok {
		t.Fatal("provider error should not surface as a compute error")
	}
	if !llm.IsRateLimitError(err) {
		t.Fatalf("provider error lost its type: %v", err)
	}
}

func TestCachedClientDistinctRequestsMiss(t *testing.T) {
	inner := &countingClient{}
	cached := NewCachedClient(inner, newMapStore())
	ctx := context.Background()

	reqA := &llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "length of 'hello'"}}}
	reqB := &llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "length of 'world'"}}}

	if _, err := cached.Chat(ctx, reqA); err != nil {
		t.Fatalf("chat A: %v", err)
	}
	if _, err := cached.Chat(ctx, reqB); err != nil {
		t.Fatalf("chat B: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("distinct requests should both reach the provider, got %d calls", inner.calls)
	}
}

func TestCachedClientErrorNotCached(t *testing.T) {
	inner := &countingClient{err: errors.New("rate limited")}
	store := newMapStore()
	cached := NewCachedClient(inner, store)
	ctx := context.Background()
	req := &llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "hi"}}}

	if _, err := cached.Chat(ctx, req); err == nil {
		t.Fatal("expected provider error to propagate")
	}
	if entries, _ := store.Len(ctx); entries != 0 {
		t.Fatalf("provider failure was cached: %d entries", entries)
	}

	// Provider recovers; the same request computes fresh
	inner.err = nil
	resp, err := cached.Chat(ctx, req)
	if err != nil {
		t.Fatalf("chat after recovery: %v", err)
	}
	if resp.Content == "" {
		t.Fatal("expected content after recovery")
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 provider calls, got %d", inner.calls)
	}
}

func TestCachedClientDelegation(t *testing.T) {
	inner := &countingClient{}
	cached := NewCachedClient(inner, newMapStore())

	if cached.Model() != "counting-model" {
		t.Errorf("unexpected model: %s", cached.Model())
	}
	if cached.Provider() != llm.ProviderOpenAI {
		t.Errorf("unexpected provider: %s", cached.Provider())
	}
	if err := cached.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestCachedClientStreamBypassesCache(t *testing.T) {
	inner := &countingClient{}
	cached := NewCachedClient(inner, newMapStore())
	ctx := context.Background()
	req := &llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "stream"}}}

	for i := 0; i < 2; i++ {
		output := make(chan *llm.Response, 1)
		if err := cached.Stream(ctx, req, output); err != nil {
			t.Fatalf("stream %d: %v", i, err)
		}
		if _, ok := <-output; !ok {
			t.Fatalf("stream %d sent nothing", i)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("streaming should bypass the cache, got %d calls", inner.calls)
	}
}

func TestRequestKeyStability(t *testing.T) {
	temp := 0.5
	req := func() *llm.ChatRequest {
		return &llm.ChatRequest{
			Model:       "gpt-4o",
			Temperature: &temp,
			Messages: []llm.Message{
				{Role: "system", Content: "sys"},
				{Role: "user", Content: "length of 'hello'"},
			},
		}
	}

	if RequestKey(req()) != RequestKey(req()) {
		t.Fatal("identical requests produced different keys")
	}

	other := req()
	other.Messages[1].Content = "length of 'world'"
	if RequestKey(req()) == RequestKey(other) {
		t.Fatal("different messages produced the same key")
	}

	otherModel := req()
	otherModel.Model = "gpt-4o-mini"
	if RequestKey(req()) == RequestKey(otherModel) {
		t.Fatal("different models produced the same key")
	}

	otherTemp := 0.9
	hotter := req()
	hotter.Temperature = &otherTemp
	if RequestKey(req()) == RequestKey(hotter) {
		t.Fatal("different temperatures produced the same key")
	}

	if RequestKey(nil) == "" {
		t.Fatal("nil request should still produce a key")
	}
}
