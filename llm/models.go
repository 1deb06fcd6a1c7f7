package llm

import (
	"fmt"
	"strings"
)

// Model represents an LLM model with its properties
type Model struct {
	Provider     Provider     `json:"provider"`
	Name         string       `json:"name"`
	DisplayName  string       `json:"display_name"`
	ContextSize  int          `json:"context_size"`
	InputCost    float64      `json:"input_cost"`  // Cost per 1M input tokens in USD
	OutputCost   float64      `json:"output_cost"` // Cost per 1M output tokens in USD
	Capabilities Capabilities `json:"capabilities"`
}

// Provider represents LLM providers
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	// ProviderScripted identifies deterministic offline clients used for
	// wiring checks and tests.
	ProviderScripted Provider = "scripted"
)

// Capabilities represents what a model can do
type Capabilities struct {
	Chat            bool `json:"chat"`
	FunctionCalling bool `json:"function_calling"`
	ToolUse         bool `json:"tool_use"`
	JSON            bool `json:"json"`
	Streaming       bool `json:"streaming"`
}

// OpenAI Models
const (
	ModelGPT4o      = "gpt-4o"
	ModelGPT4oMini  = "gpt-4o-mini"
	ModelGPT4Turbo  = "gpt-4-turbo"
	ModelGPT35Turbo = "gpt-3.5-turbo"
)

// Anthropic Models
const (
	ModelClaude35Sonnet = "claude-3-5-sonnet-20241022"
	ModelClaude35Haiku  = "claude-3-5-haiku-20241022"
	ModelClaudeHaiku    = "claude-3-haiku-20240307"
)

// AvailableModels contains all available models with their metadata
var AvailableModels = map[string]Model{
	ModelGPT4o: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT4o,
		DisplayName: "GPT-4o",
		ContextSize: 128000,
		InputCost:   5.0,
		OutputCost:  15.0,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
	ModelGPT4oMini: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT4oMini,
		DisplayName: "GPT-4o Mini",
		ContextSize: 128000,
		InputCost:   0.15,
		OutputCost:  0.60,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
	ModelGPT4Turbo: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT4Turbo,
		DisplayName: "GPT-4 Turbo",
		ContextSize: 128000,
		InputCost:   10.0,
		OutputCost:  30.0,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
	ModelGPT35Turbo: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT35Turbo,
		DisplayName: "GPT-3.5 Turbo",
		ContextSize: 16385,
		InputCost:   0.50,
		OutputCost:  1.50,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
	ModelClaude35Sonnet: {
		Provider:    ProviderAnthropic,
		Name:        ModelClaude35Sonnet,
		DisplayName: "Claude 3.5 Sonnet",
		ContextSize: 200000,
		InputCost:   3.0,
		OutputCost:  15.0,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
	ModelClaude35Haiku: {
		Provider:    ProviderAnthropic,
		Name:        ModelClaude35Haiku,
		DisplayName: "Claude 3.5 Haiku",
		ContextSize: 200000,
		InputCost:   0.80,
		OutputCost:  4.0,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
	ModelClaudeHaiku: {
		Provider:    ProviderAnthropic,
		Name:        ModelClaudeHaiku,
		DisplayName: "Claude 3 Haiku",
		ContextSize: 200000,
		InputCost:   0.25,
		OutputCost:  1.25,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
}

// GetModel returns metadata for a model name
func GetModel(name string) (Model, bool) {
	m, ok := AvailableModels[name]
	return m, ok
}

// ValidateModel checks whether a model name is known
func ValidateModel(name string) error {
	if name == "" {
		return fmt.Errorf("model name is empty")
	}
	if _, ok := AvailableModels[name]; !ok {
		return fmt.Errorf("unknown model: %s", name)
	}
	return nil
}

// ModelsForProvider returns the known model names for a provider
func ModelsForProvider(p Provider) []string {
	names := make([]string, 0)
	for name, m := range AvailableModels {
		if m.Provider == p {
			names = append(names, name)
		}
	}
	return names
}

// EstimateCost estimates the USD cost for a request against this model
func (m Model) EstimateCost(inputTokens, outputTokens int) float64 {
	in := float64(inputTokens) / 1_000_000 * m.InputCost
	out := float64(outputTokens) / 1_000_000 * m.OutputCost
	return in + out
}

// SupportsTools reports whether the model can call tools
func (m Model) SupportsTools() bool {
	return m.Capabilities.ToolUse || m.Capabilities.FunctionCalling
}

// ProviderForModel guesses the provider from a model name prefix when the
// model is not in the catalog (provider APIs add dated variants frequently).
func ProviderForModel(name string) Provider {
	if m, ok := AvailableModels[name]; ok {
		return m.Provider
	}
	switch {
	case strings.HasPrefix(name, "gpt-"), strings.HasPrefix(name, "o1"):
		return ProviderOpenAI
	case strings.HasPrefix(name, "claude-"):
		return ProviderAnthropic
	default:
		return Provider("")
	}
}
