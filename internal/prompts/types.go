// Package prompts provides prompt management with embedded defaults and
// config-level overrides.
//
// Embedded .tmpl files in code are the source of truth for defaults. The
// prompts section of the config file can override any key, which lets
// operators tune extraction wording without rebuilding the binary.
//
// Resolution order for a key:
//  1. Config override (prompts.<key> in the config file, if set)
//  2. Embedded default (from .tmpl files in code)
package prompts

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   // Hierarchical key: extract.release.system
	Text        string   // The prompt text (Go template)
	Description string   // Human-readable description
	Variables   []string // Extracted template variables
	Hash        string   // SHA256 hash of the text for change detection
}

// ResolvedPrompt is the result of resolving a prompt key.
type ResolvedPrompt struct {
	Key        string   `json:"key"`
	Text       string   `json:"text"`
	Variables  []string `json:"variables,omitempty"`
	IsOverride bool     `json:"is_override"` // true if from a config override
}
