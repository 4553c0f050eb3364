package releasemeta

import (
	"encoding/json"

	"github.com/jackzampolin/maestro/internal/providers"
)

// Request defaults. Temperature is kept low because extraction should be
// deterministic, not creative.
const (
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 2048
)

// Input contains the data needed to build an extraction request.
type Input struct {
	RawText string

	// SystemPromptOverride replaces the embedded system prompt when set.
	SystemPromptOverride string

	// UserPromptOverride replaces the embedded user prompt template when set.
	UserPromptOverride string
}

// BuildChatRequest builds the LLM request for release extraction.
// The caller picks the provider and may set Model before sending.
func BuildChatRequest(input Input) *providers.ChatRequest {
	systemPrompt := input.SystemPromptOverride
	if systemPrompt == "" {
		systemPrompt = SystemPrompt()
	}

	data := UserPromptData{RawText: input.RawText}
	userPrompt := UserPromptWithOverride(data, input.UserPromptOverride)

	return &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: systemPrompt},
			{Role: providers.RoleUser, Content: userPrompt},
		},
		ResponseFormat: buildResponseFormat(),
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
	}
}

// ParseResult parses the validated JSON payload into a Result.
func ParseResult(parsedJSON json.RawMessage) (*Result, error) {
	var result Result
	if err := json.Unmarshal(parsedJSON, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func buildResponseFormat() *providers.ResponseFormat {
	jsonSchema, _ := json.Marshal(ExtractionSchema["json_schema"])
	return &providers.ResponseFormat{
		Type:       "json_schema",
		JSONSchema: jsonSchema,
	}
}
