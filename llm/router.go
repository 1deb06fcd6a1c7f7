package llm

import (
	"context"
	"errors"
)

// RoutePolicy picks the client that should serve a request. The pipeline uses
// it to keep the deterministic scripted client addressable by model name next
// to whichever hosted provider is configured as the default.
type RoutePolicy interface {
	// Select returns the client for req and an optional model override to
	// stamp on the outgoing request. An empty override leaves the request
	// untouched.
	Select(req *ChatRequest) (Client, string, error)
}

// StaticPolicy routes by exact model name. A request naming a model in
// ByModel goes to that client; any other request goes to Default. Requests
// with no model set pass through to Default unchanged, which keeps their
// cache keys stable.
type StaticPolicy struct {
	Default Client
	ByModel map[string]Client
}

// Select implements RoutePolicy
func (p StaticPolicy) Select(req *ChatRequest) (Client, string, error) {
	model := ""
	if req != nil {
		model = req.Model
	}
	if model != "" {
		if c, ok := p.ByModel[model]; ok && c != nil {
			return c, model, nil
		}
	}
	if p.Default == nil {
		return nil, "", errors.New("no default client configured")
	}
	return p.Default, model, nil
}

// RouterClient is an llm.Client that delegates each call to the client its
// policy selects. It sits between the response cache and the concrete
// providers so one wired pipeline can serve both offline and hosted models.
type RouterClient struct {
	policy RoutePolicy
}

// NewRouterClient creates a router backed by policy
func NewRouterClient(policy RoutePolicy) *RouterClient {
	return &RouterClient{policy: policy}
}

// resolve runs the policy and applies any model override without mutating
// the caller's request
func (r *RouterClient) resolve(req *ChatRequest) (Client, *ChatRequest, error) {
	c, override, err := r.policy.Select(req)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		req = &ChatRequest{}
	}
	if override != "" && override != req.Model {
		cp := *req
		cp.Model = override
		req = &cp
	}
	return c, req, nil
}

// Chat implements llm.Client interface
func (r *RouterClient) Chat(ctx context.Context, req *ChatRequest) (*Response, error) {
	c, routed, err := r.resolve(req)
	if err != nil {
		return nil, err
	}
	return c.Chat(ctx, routed)
}

// Completion implements llm.Client interface. It goes through Chat so
// completions share the same routing and caching path as chat requests.
func (r *RouterClient) Completion(ctx context.Context, prompt string) (*Response, error) {
	return r.Chat(ctx, &ChatRequest{
		Messages: []Message{{Role: "user", Content: prompt}},
	})
}

// Stream implements llm.Client interface
func (r *RouterClient) Stream(ctx context.Context, req *ChatRequest, output chan<- *Response) error {
	c, routed, err := r.resolve(req)
	if err != nil {
		return err
	}
	return c.Stream(ctx, routed, output)
}

// Model implements llm.Client interface
func (r *RouterClient) Model() string { return "router" }

// Provider implements llm.Client interface
func (r *RouterClient) Provider() Provider { return Provider("router") }

// Validate implements llm.Client interface
func (r *RouterClient) Validate() error {
	if r.policy == nil {
		return errors.New("nil route policy")
	}
	return nil
}

var _ Client = (*RouterClient)(nil)
