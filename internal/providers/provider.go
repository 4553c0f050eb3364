// Package providers contains the chat-completion clients the extraction
// pipeline talks to, a mock for tests, a token-bucket rate limiter, and a
// config-driven registry with hot reload. Gemini and OpenRouter both speak
// the OpenAI completions dialect, so one SDK covers both.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// Client is the interface the extraction pipeline calls.
type Client interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "gemini").
	Name() string
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat requests structured output. JSONSchema carries the
// {"name","strict","schema"} wrapper the OpenAI dialect expects; the same
// document drives local validation of whatever comes back.
type ResponseFormat struct {
	Type       string          `json:"type"` // "json_schema"
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// ChatRequest is a request to a completion provider.
type ChatRequest struct {
	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Timeout     time.Duration

	// Structured output
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// Error types carried on ChatResult.ErrorType.
const (
	ErrTypeAPI              = "api_error"
	ErrTypeAuth             = "auth_error"
	ErrTypeRateLimit        = "rate_limit"
	ErrTypeEmptyResponse    = "empty_response"
	ErrTypeJSONParse        = "json_parse"
	ErrTypeSchemaValidation = "schema_validation"
	ErrTypeCancelled        = "context_cancelled"
)

// ChatResult is the complete response from a provider call. A transport or
// API failure comes back as (result, err); output that arrived but failed
// structured parsing or schema validation comes back as (result, nil) with
// Success false so callers can classify malformed responses separately.
type ChatResult struct {
	// Response content
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"` // Parsed if ResponseFormat was set

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	RetryAfter   time.Duration
}
