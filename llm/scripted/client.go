// Package scripted provides a deterministic offline llm.Client that drives
// the tool-use loop without a hosted model endpoint. It always asks for its
// configured tool on a fresh user turn and phrases a final answer once it has
// seen the tool result. Useful for wiring checks and tests where a real
// provider would be slow, costly, or unavailable.
package scripted

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/lenagent/go-lenagent/llm"
)

// Client implements the llm.Client interface with scripted behavior
type Client struct {
	config Config
	calls  atomic.Int64
}

// Config holds scripted client configuration
type Config struct {
	// ToolName is the tool requested for every user turn
	ToolName string
	// Model is the reported model identifier
	Model string
}

// NewClient creates a new scripted client
func NewClient(config Config) *Client {
	if config.ToolName == "" {
		config.ToolName = "StringLengthTool"
	}
	if config.Model == "" {
		config.Model = "scripted-v1"
	}
	return &Client{config: config}
}

// Calls returns how many times Chat has been invoked. The caching checks use
// this to verify a repeat request never reached the model.
func (c *Client) Calls() int64 {
	return c.calls.Load()
}

// Chat implements llm.Client interface
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	c.calls.Add(1)

	if req == nil || len(req.Messages) == 0 {
		return nil, llm.NewLLMError(llm.ProviderScripted, llm.ErrorTypeInvalidRequest, "empty request")
	}

	last := req.Messages[len(req.Messages)-1]

	// After a tool result, phrase the final answer
	if last.Role == "tool" {
		target := lastQuotedTarget(req.Messages)
		content := fmt.Sprintf("The length of '%s' is %s.", target, strings.TrimSpace(last.Content))
		if strings.HasPrefix(last.Content, "error:") {
			content = fmt.Sprintf("I could not determine the length: %s", last.Content)
		}
		return c.respond(content, "stop", nil), nil
	}

	// Fresh user turn: request the tool with the raw user text as input
	user := lastUserContent(req.Messages)
	args, _ := json.Marshal(map[string]string{"input": user})
	toolCalls := []llm.ToolCall{{
		ID:   fmt.Sprintf("call_%d", c.calls.Load()),
		Type: "function",
		Function: llm.Function{
			Name:      c.config.ToolName,
			Arguments: string(args),
		},
	}}
	return c.respond("", "tool_calls", toolCalls), nil
}

func (c *Client) respond(content, finishReason string, toolCalls []llm.ToolCall) *llm.Response {
	return &llm.Response{
		Content:      content,
		Role:         "assistant",
		Model:        c.config.Model,
		Provider:     llm.ProviderScripted,
		FinishReason: finishReason,
		ToolCalls:    toolCalls,
	}
}

// lastUserContent returns the content of the most recent user message
func lastUserContent(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

// lastQuotedTarget pulls the quoted span out of the most recent user message.
// The rule mirrors the StringLengthTool's extraction: longest quoted span,
// earliest on a tie.
func lastQuotedTarget(messages []llm.Message) string {
	const quotes = "'\"`"

	input := lastUserContent(messages)
	best := ""
	rest := input
	for {
		i := strings.IndexAny(rest, quotes)
		if i < 0 {
			break
		}
		q := rest[i]
		j := strings.IndexByte(rest[i+1:], q)
		if j < 0 {
			rest = rest[i+1:]
			continue
		}
		span := rest[i+1 : i+1+j]
		if len(span) > len(best) {
			best = span
		}
		rest = rest[i+1+j+1:]
	}
	return best
}

// Completion implements llm.Client interface
func (c *Client) Completion(ctx context.Context, prompt string) (*llm.Response, error) {
	req := &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	}
	return c.Chat(ctx, req)
}

// Stream implements llm.Client interface
func (c *Client) Stream(ctx context.Context, req *llm.ChatRequest, output chan<- *llm.Response) error {
	defer close(output)

	resp, err := c.Chat(ctx, req)
	if err != nil {
		return err
	}

	select {
	case output <- resp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Model implements llm.Client interface
func (c *Client) Model() string { return c.config.Model }

// Provider implements llm.Client interface
func (c *Client) Provider() llm.Provider { return llm.ProviderScripted }

// Validate implements llm.Client interface
func (c *Client) Validate() error { return nil }

var _ llm.Client = (*Client)(nil)
