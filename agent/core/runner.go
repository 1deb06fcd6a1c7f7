package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lenagent/go-lenagent/llm"
	"github.com/lenagent/go-lenagent/memory"
	obs "github.com/lenagent/go-lenagent/observability"
	"github.com/lenagent/go-lenagent/tools"
)

// ChatAgent is the default implementation of the Agent interface
type ChatAgent struct {
	Model  llm.Client
	Tools  tools.Registry
	Mem    memory.Store
	Config AgentConfig
}

// ChatConfig holds configuration for ChatAgent
type ChatConfig struct {
	Model  llm.Client
	Tools  tools.Registry
	Mem    memory.Store
	Config AgentConfig
}

// NewChatAgent creates a new ChatAgent with the given configuration
func NewChatAgent(config ChatConfig) *ChatAgent {
	return &ChatAgent{
		Model:  config.Model,
		Tools:  config.Tools,
		Mem:    config.Mem,
		Config: config.Config,
	}
}

// Run implements the Agent interface
func (a *ChatAgent) Run(ctx context.Context, input Message) (Message, error) {
	// Agent-level span
	span, ctx := obs.TracerImpl.StartSpan(ctx, "agent.run")
	defer span.End()

	if a.Config.Timeout != "" {
		timeout, err := time.ParseDuration(a.Config.Timeout)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, fmt.Errorf("invalid timeout duration: %w", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := a.appendHistory(ctx, input); err != nil {
		return Message{}, fmt.Errorf("failed to store message: %w", err)
	}

	// Prepare messages for LLM
	messages := []llm.Message{{
		Role:    "system",
		Content: a.Config.SystemPrompt,
	}}

	history := a.history(ctx)
	if len(history) == 0 {
		// No memory wired; the loop still needs the incoming turn
		history = []Message{input}
	}
	for _, msg := range history {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	// Build tool definitions from registry (if any)
	var toolDefs []llm.Tool
	if a.Tools != nil {
		for _, name := range a.Tools.List() {
			if t, ok := a.Tools.Get(name); ok {
				toolDefs = append(toolDefs, llm.Tool{
					Type: "function",
					Function: llm.ToolFunction{
						Name:        t.Name(),
						Description: t.Description(),
						Parameters:  t.Schema(),
					},
				})
			}
		}
	}

	// ReAct-lite loop
	maxIterations := a.Config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 1
	}

	var finalResp *llm.Response
	for iter := 0; iter < maxIterations; iter++ {
		req := &llm.ChatRequest{
			Messages:   messages,
			Tools:      toolDefs,
			ToolChoice: nil, // allow provider to auto-select
		}

		response, err := a.Model.Chat(ctx, req)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, fmt.Errorf("LLM call failed: %w", err)
		}
		finalResp = response

		// If tool calls are requested, execute them and continue loop
		if len(response.ToolCalls) > 0 && a.Tools != nil {
			// Append assistant message that triggered the tool call
			messages = append(messages, llm.Message{Role: "assistant", Content: response.Content})

			for _, tc := range response.ToolCalls {
				toolName := tc.Function.Name
				tool, ok := a.Tools.Get(toolName)
				if !ok {
					span.AddEvent("tool.not_found", map[string]interface{}{"tool": toolName})
					continue
				}

				// Parse arguments; support {"input":"..."} or raw string
				inputStr := tc.Function.Arguments
				var argObj map[string]interface{}
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &argObj); err == nil {
					if v, ok := argObj["input"].(string); ok {
						inputStr = v
					}
				}

				// Execute tool via registry (already instrumented)
				result, err := a.Tools.Execute(ctx, tool.Name(), inputStr)
				if err != nil {
					// Provide the error back to the model as tool content
					result = fmt.Sprintf("error: %v", err)
				}

				messages = append(messages, llm.Message{
					Role:       "tool",
					Content:    result,
					ToolCallID: tc.ID,
				})
			}

			// Continue to next iteration for model to observe tool outputs
			continue
		}

		// No tool calls, take this as the final answer
		break
	}

	if finalResp == nil {
		span.SetStatus(obs.StatusCodeError, "no response")
		return Message{}, fmt.Errorf("no response from model")
	}

	result := Message{
		Role:    "assistant",
		Content: finalResp.Content,
	}

	if err := a.appendHistory(ctx, result); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, fmt.Errorf("failed to store response: %w", err)
	}

	span.SetStatus(obs.StatusCodeOk, "")
	return result, nil
}

// appendHistory adds a message to the stored conversation, if memory is wired
func (a *ChatAgent) appendHistory(ctx context.Context, msg Message) error {
	if a.Mem == nil {
		return nil
	}
	msgs := a.history(ctx)
	msgs = append(msgs, msg)
	return a.Mem.Store(ctx, "conversation", msgs)
}

// history returns the stored conversation, tolerating an empty store
func (a *ChatAgent) history(ctx context.Context) []Message {
	if a.Mem == nil {
		return nil
	}
	existing, err := a.Mem.Retrieve(ctx, "conversation")
	if err != nil {
		return nil
	}
	if msgs, ok := existing.([]Message); ok {
		return msgs
	}
	if msg, ok := existing.(Message); ok { // legacy single message
		return []Message{msg}
	}
	return nil
}

// RunStream implements the Agent interface for streaming responses
func (a *ChatAgent) RunStream(ctx context.Context, input Message, output chan<- Message) error {
	defer close(output)

	// Run normally and send the single final result
	result, err := a.Run(ctx, input)
	if err != nil {
		return err
	}

	select {
	case output <- result:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Agent = (*ChatAgent)(nil)
