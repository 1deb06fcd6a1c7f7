package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	obs "github.com/lenagent/go-lenagent/observability"
)

// Tool is a capability the agent can invoke during its reasoning loop, such
// as the string length tool.
type Tool interface {
	// Name identifies the tool; the model requests it by this name
	Name() string

	// Description tells the model what the tool does
	Description() string

	// Execute runs the tool against raw input and returns its result
	Execute(ctx context.Context, input string) (string, error)

	// Schema describes the tool's input as a JSON schema
	Schema() map[string]interface{}
}

// Registry is the set of tools an agent may call
type Registry interface {
	// Register adds a tool; a duplicate name is an error
	Register(tool Tool) error

	// Get looks up a tool by name
	Get(name string) (Tool, bool)

	// List returns the registered tool names in sorted order
	List() []string

	// Execute looks up a tool by name and runs it
	Execute(ctx context.Context, name string, input string) (string, error)
}

// DefaultRegistry is an in-memory Registry safe for concurrent use
type DefaultRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty DefaultRegistry
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{tools: make(map[string]Tool)}
}

// Register implements Registry interface
func (r *DefaultRegistry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get implements Registry interface
func (r *DefaultRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List implements Registry interface. Names come back sorted so prompts and
// logs built from the list are stable between runs.
func (r *DefaultRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute implements Registry interface. Every invocation is traced and its
// latency recorded under the tool's name.
func (r *DefaultRegistry) Execute(ctx context.Context, name string, input string) (string, error) {
	tool, exists := r.Get(name)
	if !exists {
		return "", fmt.Errorf("tool %q is not registered", name)
	}

	span, ctx := obs.TracerImpl.StartSpan(ctx, "tool.execute")
	span.SetAttribute(obs.AttrToolName, name)
	defer span.End()

	labels := map[string]string{"tool": name}
	start := time.Now()
	result, err := tool.Execute(ctx, input)
	obs.MetricsImpl.RecordLatency(time.Since(start), labels)

	if err != nil {
		obs.MetricsImpl.RecordError("tool_error", labels)
		span.SetStatus(obs.StatusCodeError, err.Error())
		return "", err
	}
	span.SetStatus(obs.StatusCodeOk, "")
	return result, nil
}

var _ Registry = (*DefaultRegistry)(nil)
