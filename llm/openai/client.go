package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lenagent/go-lenagent/llm"
	"github.com/sashabaranov/go-openai"
)

// Client implements the llm.Client interface for OpenAI
type Client struct {
	client  *openai.Client
	config  Config
	retrier *llm.Retrier
}

// Config holds OpenAI-specific configuration
type Config struct {
	APIKey       string          `json:"api_key"`
	Model        string          `json:"model"` // e.g., "gpt-4o", "gpt-3.5-turbo"
	BaseURL      string          `json:"base_url,omitempty"`
	Temperature  float64         `json:"temperature,omitempty"`
	MaxTokens    int             `json:"max_tokens,omitempty"`
	Timeout      time.Duration   `json:"timeout,omitempty"`
	RetryConfig  llm.RetryConfig `json:"retry_config,omitempty"`
	Debug        bool            `json:"debug,omitempty"`
	Organization string          `json:"organization,omitempty"`
}

// NewClient creates a new OpenAI client
func NewClient(config Config) (*Client, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Set defaults
	if config.Model == "" {
		config.Model = llm.ModelGPT4oMini // Default to cheapest GPT-4 model
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1000
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryConfig.MaxRetries == 0 {
		config.RetryConfig = llm.DefaultRetryConfig()
	}

	openaiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		openaiConfig.BaseURL = config.BaseURL
	}
	if config.Organization != "" {
		openaiConfig.OrgID = config.Organization
	}

	openaiConfig.HTTPClient = &http.Client{
		Timeout: config.Timeout,
	}

	client := &Client{
		client:  openai.NewClientWithConfig(openaiConfig),
		config:  config,
		retrier: llm.NewRetrier(config.RetryConfig),
	}

	return client, nil
}

// validateConfig validates the OpenAI configuration
func validateConfig(config Config) error {
	if config.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if config.Model != "" {
		if err := llm.ValidateModel(config.Model); err != nil {
			return fmt.Errorf("invalid model: %w", err)
		}

		model, _ := llm.GetModel(config.Model)
		if model.Provider != llm.ProviderOpenAI {
			return fmt.Errorf("model %s is not an OpenAI model", config.Model)
		}
	}

	if config.Temperature < 0 || config.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}

	if config.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}

	return nil
}

// Chat implements llm.Client interface
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	start := time.Now()

	result, err := llm.Execute(c.retrier, ctx, func(ctx context.Context, attempt int) (*llm.Response, error) {
		return c.chat(ctx, req, attempt)
	})

	if err != nil {
		return nil, err
	}

	result.Latency = time.Since(start)
	result.Timestamp = start

	return result, nil
}

// chat performs the actual chat completion request
func (c *Client) chat(ctx context.Context, req *llm.ChatRequest, attempt int) (*llm.Response, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, msg := range req.Messages {
		oaiMsg := openai.ChatCompletionMessage{
			Content: msg.Content,
		}

		switch msg.Role {
		case "system":
			oaiMsg.Role = openai.ChatMessageRoleSystem
		case "user":
			oaiMsg.Role = openai.ChatMessageRoleUser
		case "assistant":
			oaiMsg.Role = openai.ChatMessageRoleAssistant
		case "tool":
			oaiMsg.Role = openai.ChatMessageRoleTool
			if msg.ToolCallID != "" {
				oaiMsg.ToolCallID = msg.ToolCallID
			}
		default:
			oaiMsg.Role = openai.ChatMessageRoleUser
		}

		if msg.Name != "" {
			oaiMsg.Name = msg.Name
		}

		messages = append(messages, oaiMsg)
	}

	model := c.config.Model
	if req.Model != "" {
		model = req.Model
	}

	oaiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}

	if req.Temperature != nil {
		oaiReq.Temperature = float32(*req.Temperature)
	} else {
		oaiReq.Temperature = float32(c.config.Temperature)
	}

	if req.MaxTokens != nil {
		oaiReq.MaxTokens = *req.MaxTokens
	} else if c.config.MaxTokens > 0 {
		oaiReq.MaxTokens = c.config.MaxTokens
	}

	if req.TopP != nil {
		oaiReq.TopP = float32(*req.TopP)
	}

	if len(req.Stop) > 0 {
		oaiReq.Stop = req.Stop
	}

	if req.Seed != nil {
		oaiReq.Seed = req.Seed
	}

	if req.User != "" {
		oaiReq.User = req.User
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.Tool, len(req.Tools))
		for i, tool := range req.Tools {
			tools[i] = openai.Tool{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        tool.Function.Name,
					Description: tool.Function.Description,
					Parameters:  tool.Function.Parameters,
				},
			}
		}
		oaiReq.Tools = tools

		if req.ToolChoice != nil {
			oaiReq.ToolChoice = req.ToolChoice
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, oaiReq)
	if err != nil {
		return nil, c.convertError(err, attempt)
	}

	if len(resp.Choices) == 0 {
		return nil, llm.NewLLMError(llm.ProviderOpenAI, llm.ErrorTypeUnknown, "no choices returned")
	}

	choice := resp.Choices[0]

	var toolCalls []llm.ToolCall
	if len(choice.Message.ToolCalls) > 0 {
		toolCalls = make([]llm.ToolCall, len(choice.Message.ToolCalls))
		for i, tc := range choice.Message.ToolCalls {
			toolCalls[i] = llm.ToolCall{
				ID:   tc.ID,
				Type: string(tc.Type),
				Function: llm.Function{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}

	var usage *llm.Usage
	if resp.Usage.TotalTokens > 0 {
		modelInfo, _ := llm.GetModel(model)
		usage = &llm.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
			Cost:         modelInfo.EstimateCost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
		}
	}

	return &llm.Response{
		Content:      choice.Message.Content,
		Role:         "assistant",
		Model:        model,
		Provider:     llm.ProviderOpenAI,
		Usage:        usage,
		FinishReason: string(choice.FinishReason),
		ToolCalls:    toolCalls,
		Meta: map[string]string{
			"id":      resp.ID,
			"object":  resp.Object,
			"created": fmt.Sprintf("%d", resp.Created),
		},
	}, nil
}

// Completion implements llm.Client interface
func (c *Client) Completion(ctx context.Context, prompt string) (*llm.Response, error) {
	req := &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
	}
	return c.Chat(ctx, req)
}

// Stream implements llm.Client interface
func (c *Client) Stream(ctx context.Context, req *llm.ChatRequest, output chan<- *llm.Response) error {
	defer close(output)

	_, err := llm.Execute(c.retrier, ctx, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, c.stream(ctx, req, output, attempt)
	})

	return err
}

// stream performs the actual streaming request
func (c *Client) stream(ctx context.Context, req *llm.ChatRequest, output chan<- *llm.Response, attempt int) error {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, msg := range req.Messages {
		oaiMsg := openai.ChatCompletionMessage{
			Content: msg.Content,
		}

		switch msg.Role {
		case "system":
			oaiMsg.Role = openai.ChatMessageRoleSystem
		case "user":
			oaiMsg.Role = openai.ChatMessageRoleUser
		case "assistant":
			oaiMsg.Role = openai.ChatMessageRoleAssistant
		case "tool":
			oaiMsg.Role = openai.ChatMessageRoleTool
		default:
			oaiMsg.Role = openai.ChatMessageRoleUser
		}

		messages = append(messages, oaiMsg)
	}

	model := c.config.Model
	if req.Model != "" {
		model = req.Model
	}

	oaiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	}

	if req.Temperature != nil {
		oaiReq.Temperature = float32(*req.Temperature)
	} else {
		oaiReq.Temperature = float32(c.config.Temperature)
	}

	if req.MaxTokens != nil {
		oaiReq.MaxTokens = *req.MaxTokens
	} else if c.config.MaxTokens > 0 {
		oaiReq.MaxTokens = c.config.MaxTokens
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, oaiReq)
	if err != nil {
		return c.convertError(err, attempt)
	}
	defer stream.Close()

	start := time.Now()
	for {
		response, err := stream.Recv()
		if err != nil {
			if strings.Contains(err.Error(), "stream finished") {
				break
			}
			return c.convertError(err, attempt)
		}

		if len(response.Choices) > 0 {
			choice := response.Choices[0]

			llmResp := &llm.Response{
				Content:      choice.Delta.Content,
				Role:         "assistant",
				Model:        model,
				Provider:     llm.ProviderOpenAI,
				FinishReason: string(choice.FinishReason),
				Latency:      time.Since(start),
				Timestamp:    start,
				Meta: map[string]string{
					"id":        response.ID,
					"created":   fmt.Sprintf("%d", response.Created),
					"streaming": "true",
				},
			}

			select {
			case output <- llmResp:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return nil
}

// convertError converts OpenAI SDK errors to LLM errors
func (c *Client) convertError(err error, attempt int) error {
	if err == nil {
		return nil
	}

	if apiErr, ok := err.(*openai.APIError); ok {
		llmErr := llm.ParseHTTPError(llm.ProviderOpenAI, apiErr.HTTPStatusCode, apiErr.Message)
		if code, ok := apiErr.Code.(string); ok {
			llmErr.Code = code
		}

		if apiErr.HTTPStatusCode == 429 && len(apiErr.Message) > 0 {
			// OpenAI sometimes includes retry time in the error message
			if strings.Contains(strings.ToLower(apiErr.Message), "try again in") {
				llmErr.RetryAfter = 60 // Default to 60 seconds
			}
		}

		return llmErr
	}

	if err == context.Canceled || err == context.DeadlineExceeded {
		if err == context.DeadlineExceeded {
			return llm.NewLLMErrorWithCause(llm.ProviderOpenAI, llm.ErrorTypeTimeout, "request timeout", err)
		}
		return llm.NewLLMErrorWithCause(llm.ProviderOpenAI, llm.ErrorTypeUnknown, "context error", err)
	}

	if strings.Contains(strings.ToLower(err.Error()), "connection") ||
		strings.Contains(strings.ToLower(err.Error()), "network") {
		return llm.NewLLMErrorWithCause(llm.ProviderOpenAI, llm.ErrorTypeConnectionError, "connection error", err)
	}

	return llm.NewLLMErrorWithCause(llm.ProviderOpenAI, llm.ErrorTypeUnknown, err.Error(), err)
}

// Model implements llm.Client interface
func (c *Client) Model() string {
	return c.config.Model
}

// Provider implements llm.Client interface
func (c *Client) Provider() llm.Provider {
	return llm.ProviderOpenAI
}

// Validate implements llm.Client interface
func (c *Client) Validate() error {
	return validateConfig(c.config)
}

var _ llm.Client = (*Client)(nil)
