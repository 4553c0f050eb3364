package releasemeta

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jackzampolin/maestro/internal/schema"
)

func TestSystemPromptCoversFields(t *testing.T) {
	sys := SystemPrompt()
	for _, name := range schema.Names() {
		if !strings.Contains(sys, name) {
			t.Errorf("system prompt does not mention field %q", name)
		}
	}
	if !strings.Contains(sys, "DO NOT GUESS") {
		t.Error("system prompt lost the no-guessing rule for ISRC")
	}
}

func TestUserPrompt(t *testing.T) {
	got := UserPrompt(UserPromptData{RawText: "Artist: Jane Doe"})
	if !strings.Contains(got, "Artist: Jane Doe") {
		t.Errorf("UserPrompt() = %q, missing raw text", got)
	}
}

func TestUserPromptWithOverride(t *testing.T) {
	data := UserPromptData{RawText: "some text"}

	t.Run("override used", func(t *testing.T) {
		got := UserPromptWithOverride(data, "CUSTOM: {{.RawText}}")
		if got != "CUSTOM: some text" {
			t.Errorf("UserPromptWithOverride() = %q", got)
		}
	})

	t.Run("bad override falls back", func(t *testing.T) {
		got := UserPromptWithOverride(data, "{{.Broken")
		if !strings.Contains(got, "some text") {
			t.Errorf("fallback prompt = %q, missing raw text", got)
		}
	})

	t.Run("empty override falls back", func(t *testing.T) {
		if got := UserPromptWithOverride(data, ""); got != UserPrompt(data) {
			t.Errorf("empty override should render the default, got %q", got)
		}
	})
}

func TestBuildChatRequest(t *testing.T) {
	req := BuildChatRequest(Input{RawText: "New single from Jane Doe"})

	if len(req.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Errorf("message roles = %q, %q", req.Messages[0].Role, req.Messages[1].Role)
	}
	if !strings.Contains(req.Messages[1].Content, "New single from Jane Doe") {
		t.Error("user message missing raw text")
	}
	if req.ResponseFormat == nil {
		t.Fatal("ResponseFormat is nil")
	}
	if req.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", req.Temperature, DefaultTemperature)
	}
}

func TestExtractionSchemaShape(t *testing.T) {
	req := BuildChatRequest(Input{RawText: "x"})

	var wrapper struct {
		Name   string `json:"name"`
		Strict bool   `json:"strict"`
		Schema struct {
			Type                 string         `json:"type"`
			Properties           map[string]any `json:"properties"`
			Required             []string       `json:"required"`
			AdditionalProperties bool           `json:"additionalProperties"`
		} `json:"schema"`
	}
	if err := json.Unmarshal(req.ResponseFormat.JSONSchema, &wrapper); err != nil {
		t.Fatalf("schema payload invalid: %v", err)
	}

	if wrapper.Name != "release_record" {
		t.Errorf("schema name = %q", wrapper.Name)
	}
	if !wrapper.Strict {
		t.Error("schema not strict")
	}
	if wrapper.Schema.AdditionalProperties {
		t.Error("additionalProperties should be false")
	}

	names := schema.Names()
	if len(wrapper.Schema.Properties) != len(names) {
		t.Errorf("properties = %d, want %d", len(wrapper.Schema.Properties), len(names))
	}
	if len(wrapper.Schema.Required) != len(names) {
		t.Errorf("required = %d, want %d; strict mode needs every field required", len(wrapper.Schema.Required), len(names))
	}
	for _, name := range names {
		if _, ok := wrapper.Schema.Properties[name]; !ok {
			t.Errorf("schema missing property %q", name)
		}
	}
}

func TestParseResult(t *testing.T) {
	payload := json.RawMessage(`{
		"primary_artist": "Jane Doe",
		"title": "Midnight Drive",
		"upc": "884977968484",
		"isrc": "USRC17607839",
		"release_date": "2026-09-18",
		"label": null,
		"country": "CO",
		"genre": "Popular",
		"description": "Debut single.",
		"release_type": "Single + Video"
	}`)

	result, err := ParseResult(payload)
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}

	rec := result.Record()
	if rec.PrimaryArtist != "Jane Doe" {
		t.Errorf("PrimaryArtist = %q", rec.PrimaryArtist)
	}
	if rec.Label != "" {
		t.Errorf("Label = %q, want empty for null", rec.Label)
	}
	if string(rec.ReleaseType) != "Single + Video" {
		t.Errorf("ReleaseType = %q, want raw value untouched", rec.ReleaseType)
	}
}

func TestParseResultAllNull(t *testing.T) {
	payload := json.RawMessage(`{
		"primary_artist": null, "title": null, "upc": null, "isrc": null,
		"release_date": null, "label": null, "country": null, "genre": null,
		"description": null, "release_type": null
	}`)

	result, err := ParseResult(payload)
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}

	rec := result.Record()
	for _, name := range schema.Names() {
		value, err := schema.FieldValue(rec, name)
		if err != nil {
			t.Fatalf("FieldValue(%q) error = %v", name, err)
		}
		if value != "" {
			t.Errorf("field %q = %q, want empty for null", name, value)
		}
	}
}
