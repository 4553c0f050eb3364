// Package metrics provides usage tracking for pipeline operations.
package metrics

import "time"

// Pipeline stages used for metric attribution.
const (
	StageExtract     = "extract"
	StageValidate    = "validate"
	StageGenerate    = "generate"
	StagePortalCheck = "portal_check"
)

// Metric represents a single recorded metric for a pipeline operation.
// LLM-backed stages carry provider and token data; deterministic stages
// only carry timing and status.
type Metric struct {
	// Attribution (for filtering/aggregation)
	SessionID string `json:"session_id,omitempty"`
	Stage     string `json:"stage,omitempty"`

	// Provider info
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// Tokens
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`

	// Timing
	ExecutionSeconds float64 `json:"execution_seconds,omitempty"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Filter selects metrics for listing and aggregation.
// Zero-value fields match everything.
type Filter struct {
	SessionID string
	Stage     string
	Provider  string
	Success   *bool
}

func (f Filter) matches(m Metric) bool {
	if f.SessionID != "" && m.SessionID != f.SessionID {
		return false
	}
	if f.Stage != "" && m.Stage != f.Stage {
		return false
	}
	if f.Provider != "" && m.Provider != f.Provider {
		return false
	}
	if f.Success != nil && m.Success != *f.Success {
		return false
	}
	return true
}
