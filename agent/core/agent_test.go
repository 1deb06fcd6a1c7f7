package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lenagent/go-lenagent/llm"
	"github.com/lenagent/go-lenagent/memory/inmemory"
	"github.com/lenagent/go-lenagent/tools"
)

// Mock LLM Client for testing
type MockLLMClient struct {
	responses []llm.Response
	calls     []llm.ChatRequest
	nextIndex int
	shouldErr bool
	err       error
}

func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{}
}

func (m *MockLLMClient) AddResponse(content string) {
	m.responses = append(m.responses, llm.Response{
		Content:  content,
		Role:     "assistant",
		Model:    "mock-model",
		Provider: llm.ProviderScripted,
	})
}

func (m *MockLLMClient) AddResponseWithToolCalls(content string, calls []llm.ToolCall) {
	m.responses = append(m.responses, llm.Response{
		Content:   content,
		Role:      "assistant",
		Model:     "mock-model",
		Provider:  llm.ProviderScripted,
		ToolCalls: calls,
	})
}

func (m *MockLLMClient) SetError(err error) {
	m.shouldErr = true
	m.err = err
}

func (m *MockLLMClient) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	m.calls = append(m.calls, *req)

	if m.shouldErr {
		return nil, m.err
	}

	if m.nextIndex >= len(m.responses) {
		return &llm.Response{
			Content:  "Default mock response",
			Role:     "assistant",
			Model:    "mock-model",
			Provider: llm.ProviderScripted,
		}, nil
	}

	response := m.responses[m.nextIndex]
	m.nextIndex++
	return &response, nil
}

func (m *MockLLMClient) Completion(ctx context.Context, prompt string) (*llm.Response, error) {
	return m.Chat(ctx, &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
}

func (m *MockLLMClient) Stream(ctx context.Context, req *llm.ChatRequest, output chan<- *llm.Response) error {
	resp, err := m.Chat(ctx, req)
	if err != nil {
		return err
	}

	defer close(output)
	select {
	case output <- resp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockLLMClient) Model() string          { return "mock-model" }
func (m *MockLLMClient) Provider() llm.Provider { return llm.ProviderScripted }
func (m *MockLLMClient) Validate() error        { return nil }

func (m *MockLLMClient) GetCalls() []llm.ChatRequest {
	return m.calls
}

func TestNewChatAgent(t *testing.T) {
	mockLLM := NewMockLLMClient()
	memStore := inmemory.NewStore()
	toolRegistry := tools.NewRegistry()

	agent := NewChatAgent(ChatConfig{
		Model: mockLLM,
		Tools: toolRegistry,
		Mem:   memStore,
		Config: AgentConfig{
			MaxIterations: 3,
			Timeout:       "30s",
			SystemPrompt:  "You are a helpful assistant",
		},
	})

	if agent == nil {
		t.Fatal("NewChatAgent returned nil")
	}
	if agent.Model != mockLLM {
		t.Error("Agent Model not set correctly")
	}
	if agent.Tools != toolRegistry {
		t.Error("Agent Tools not set correctly")
	}
	if agent.Mem != memStore {
		t.Error("Agent Mem not set correctly")
	}
	if agent.Config.MaxIterations != 3 {
		t.Errorf("Expected MaxIterations 3, got %d", agent.Config.MaxIterations)
	}
}

func TestChatAgent_Run_Basic(t *testing.T) {
	mockLLM := NewMockLLMClient()
	mockLLM.AddResponse("Hello! How can I help you today?")

	agent := NewChatAgent(ChatConfig{
		Model: mockLLM,
		Config: AgentConfig{
			SystemPrompt: "You are a helpful assistant",
		},
	})

	result, err := agent.Run(context.Background(), Message{Role: "user", Content: "Hello"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Role != "assistant" {
		t.Errorf("Expected response role 'assistant', got %s", result.Role)
	}
	if result.Content != "Hello! How can I help you today?" {
		t.Errorf("Unexpected response content: %s", result.Content)
	}

	calls := mockLLM.GetCalls()
	if len(calls) != 1 {
		t.Fatalf("Expected 1 LLM call, got %d", len(calls))
	}

	// System prompt first, then the user turn even without memory wired
	call := calls[0]
	if len(call.Messages) < 2 {
		t.Fatalf("Expected system and user messages, got %d", len(call.Messages))
	}
	if call.Messages[0].Role != "system" {
		t.Errorf("Expected first message role 'system', got %s", call.Messages[0].Role)
	}
	if call.Messages[1].Role != "user" || call.Messages[1].Content != "Hello" {
		t.Errorf("Expected user turn in LLM call, got %+v", call.Messages[1])
	}
}

func TestChatAgent_Run_StringLengthFlow(t *testing.T) {
	mockLLM := NewMockLLMClient()
	mockLLM.AddResponseWithToolCalls("", []llm.ToolCall{{
		ID:   "call-1",
		Type: "function",
		Function: llm.Function{
			Name:      "StringLengthTool",
			Arguments: `{"input":"What is the length of the word 'hello'?"}`,
		},
	}})
	mockLLM.AddResponse("The length of 'hello' is 5.")

	reg := tools.NewRegistry()
	_ = reg.Register(&tools.StringLengthTool{})

	agent := NewChatAgent(ChatConfig{
		Model: mockLLM,
		Tools: reg,
		Config: AgentConfig{
			SystemPrompt:  "You are a helpful assistant",
			MaxIterations: 3,
		},
	})

	result, err := agent.Run(context.Background(), Message{Role: "user", Content: "What is the length of the word 'hello'?"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Content != "The length of 'hello' is 5." {
		t.Fatalf("unexpected final content: %s", result.Content)
	}

	// The second LLM call must carry the tool output
	calls := mockLLM.GetCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 LLM calls, got %d", len(calls))
	}
	foundToolMsg := false
	for _, m := range calls[1].Messages {
		if m.Role == "tool" && m.Content == "5" {
			foundToolMsg = true
			break
		}
	}
	if !foundToolMsg {
		t.Fatal("second call should include the tool result message")
	}
}

func TestChatAgent_Run_ToolErrorFedBack(t *testing.T) {
	mockLLM := NewMockLLMClient()
	mockLLM.AddResponseWithToolCalls("", []llm.ToolCall{{
		ID:   "call-1",
		Type: "function",
		Function: llm.Function{
			Name:      "StringLengthTool",
			Arguments: `{"input":"no quotes here"}`,
		},
	}})
	mockLLM.AddResponse("I could not determine the length.")

	reg := tools.NewRegistry()
	_ = reg.Register(&tools.StringLengthTool{})

	agent := NewChatAgent(ChatConfig{
		Model: mockLLM,
		Tools: reg,
		Config: AgentConfig{MaxIterations: 3},
	})

	result, err := agent.Run(context.Background(), Message{Role: "user", Content: "no quotes here"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Content != "I could not determine the length." {
		t.Fatalf("unexpected final content: %s", result.Content)
	}

	// The failure is passed to the model as tool content, not as a Run error
	calls := mockLLM.GetCalls()
	foundErrMsg := false
	for _, m := range calls[len(calls)-1].Messages {
		if m.Role == "tool" && strings.HasPrefix(m.Content, "error:") {
			foundErrMsg = true
			break
		}
	}
	if !foundErrMsg {
		t.Fatal("tool failure should be fed back as an error-prefixed tool message")
	}
}

func TestChatAgent_Run_WithMemory(t *testing.T) {
	mockLLM := NewMockLLMClient()
	mockLLM.AddResponse("I remember that!")
	memStore := inmemory.NewStore()

	agent := NewChatAgent(ChatConfig{
		Model: mockLLM,
		Mem:   memStore,
		Config: AgentConfig{
			SystemPrompt: "You are a helpful assistant with memory",
		},
	})

	ctx := context.Background()
	input := Message{Role: "user", Content: "Remember this message"}

	result, err := agent.Run(ctx, input)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Content != "I remember that!" {
		t.Errorf("Unexpected response content: %s", result.Content)
	}

	stored, err := memStore.Retrieve(ctx, "conversation")
	if err != nil {
		t.Fatalf("Failed to retrieve stored conversation: %v", err)
	}
	msgs, ok := stored.([]Message)
	if !ok {
		t.Fatalf("Stored conversation has unexpected type %T", stored)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected input and response in conversation, got %d messages", len(msgs))
	}
	if msgs[0].Content != input.Content {
		t.Errorf("First stored message should be the input, got %q", msgs[0].Content)
	}
	if msgs[1].Content != result.Content {
		t.Errorf("Second stored message should be the response, got %q", msgs[1].Content)
	}
}

func TestChatAgent_Run_InvalidTimeout(t *testing.T) {
	agent := NewChatAgent(ChatConfig{
		Model: NewMockLLMClient(),
		Config: AgentConfig{
			Timeout: "invalid-timeout",
		},
	})

	_, err := agent.Run(context.Background(), Message{Role: "user", Content: "Test message"})
	if err == nil {
		t.Fatal("Expected error for invalid timeout format")
	}
	if !strings.Contains(err.Error(), "invalid timeout duration") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestChatAgent_Run_LLMError(t *testing.T) {
	mockLLM := NewMockLLMClient()
	mockLLM.SetError(llm.NewLLMError(llm.ProviderScripted, llm.ErrorTypeRateLimit, "Rate limit exceeded"))

	agent := NewChatAgent(ChatConfig{
		Model:  mockLLM,
		Config: AgentConfig{SystemPrompt: "You are a helpful assistant"},
	})

	_, err := agent.Run(context.Background(), Message{Role: "user", Content: "This should fail"})
	if err == nil {
		t.Fatal("Expected error from LLM")
	}
	if !strings.Contains(err.Error(), "LLM call failed") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestChatAgent_RunStream(t *testing.T) {
	mockLLM := NewMockLLMClient()
	mockLLM.AddResponse("Streaming response")

	agent := NewChatAgent(ChatConfig{
		Model:  mockLLM,
		Config: AgentConfig{SystemPrompt: "You are a helpful assistant"},
	})

	output := make(chan Message, 1)
	if err := agent.RunStream(context.Background(), Message{Role: "user", Content: "Stream this"}, output); err != nil {
		t.Fatalf("RunStream() error = %v", err)
	}

	select {
	case result, ok := <-output:
		if !ok {
			t.Fatal("Output channel closed without sending result")
		}
		if result.Content != "Streaming response" {
			t.Errorf("Expected 'Streaming response', got %s", result.Content)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for stream response")
	}

	if _, ok := <-output; ok {
		t.Error("Output channel should be closed")
	}
}

func TestChatAgent_RunStream_Error(t *testing.T) {
	mockLLM := NewMockLLMClient()
	mockLLM.SetError(llm.NewLLMError(llm.ProviderScripted, llm.ErrorTypeServerError, "Server error"))

	agent := NewChatAgent(ChatConfig{
		Model:  mockLLM,
		Config: AgentConfig{SystemPrompt: "You are a helpful assistant"},
	})

	output := make(chan Message, 1)
	if err := agent.RunStream(context.Background(), Message{Role: "user", Content: "This should error"}, output); err == nil {
		t.Fatal("Expected error from RunStream")
	}

	if _, ok := <-output; ok {
		t.Error("Output channel should be closed on error")
	}
}
