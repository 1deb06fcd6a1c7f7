package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/lenagent/go-lenagent/llm"
)

// canonicalRequest is the subset of a chat request that determines the
// response for a deterministic model: identical values mean an identical
// answer may be served from cache.
type canonicalRequest struct {
	Model        string        `json:"model"`
	SystemPrompt string        `json:"system_prompt,omitempty"`
	Messages     []llm.Message `json:"messages"`
	Temperature  *float64      `json:"temperature,omitempty"`
	TopP         *float64      `json:"top_p,omitempty"`
	MaxTokens    *int          `json:"max_tokens,omitempty"`
	Seed         *int          `json:"seed,omitempty"`
}

// RequestKey derives a stable cache key for a chat request: sha256 over the
// canonical serialization of model, messages and sampling parameters.
func RequestKey(req *llm.ChatRequest) string {
	if req == nil {
		req = &llm.ChatRequest{}
	}
	cr := canonicalRequest{
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		Messages:     req.Messages,
		Temperature:  req.Temperature,
		TopP:         req.TopP,
		MaxTokens:    req.MaxTokens,
		Seed:         req.Seed,
	}
	b, _ := json.Marshal(cr)
	sum := sha256.Sum256(b)
	return "chat:" + hex.EncodeToString(sum[:])
}
