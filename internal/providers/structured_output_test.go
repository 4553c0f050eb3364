package providers

import (
	"encoding/json"
	"testing"
)

func TestParseStructuredJSON_StripsCodeFence(t *testing.T) {
	content := "```json\n{\"ok\":true}\n```"
	got, err := parseStructuredJSON(content)
	if err != nil {
		t.Fatalf("parseStructuredJSON() error = %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(got, &parsed); err != nil {
		t.Fatalf("failed to unmarshal parsed JSON: %v", err)
	}
	if ok, _ := parsed["ok"].(bool); !ok {
		t.Fatalf("expected ok=true, got %#v", parsed)
	}
}

func TestParseStructuredJSON_ExtractsFromProse(t *testing.T) {
	content := `Here is the record you asked for:

{"title": "Midnight Drive", "upc": null}

Let me know if you need anything else.`

	got, err := parseStructuredJSON(content)
	if err != nil {
		t.Fatalf("parseStructuredJSON() error = %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(got, &parsed); err != nil {
		t.Fatalf("failed to unmarshal parsed JSON: %v", err)
	}
	if parsed["title"] != "Midnight Drive" {
		t.Fatalf("expected title from embedded object, got %#v", parsed)
	}
}

func TestParseStructuredJSON_Array(t *testing.T) {
	got, err := parseStructuredJSON("```\n[1, 2, 3]\n```")
	if err != nil {
		t.Fatalf("parseStructuredJSON() error = %v", err)
	}

	var parsed []int
	if err := json.Unmarshal(got, &parsed); err != nil {
		t.Fatalf("failed to unmarshal parsed JSON: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("expected 3 elements, got %#v", parsed)
	}
}

func TestParseStructuredJSON_NoJSON(t *testing.T) {
	if _, err := parseStructuredJSON("I'm sorry, I can't produce that."); err == nil {
		t.Fatal("expected error for content with no JSON")
	}
	if _, err := parseStructuredJSON(""); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestValidateStructuredJSON_WrapperUnwrap(t *testing.T) {
	schema := json.RawMessage(`{
		"name":"release_record",
		"strict":true,
		"schema":{
			"type":"object",
			"properties":{
				"isrc":{"type":["string","null"]}
			},
			"required":["isrc"],
			"additionalProperties":false
		}
	}`)

	valid := json.RawMessage(`{"isrc":"USRC17607839"}`)
	if err := validateStructuredJSON(schema, valid); err != nil {
		t.Fatalf("validateStructuredJSON(valid) error = %v", err)
	}

	nullValue := json.RawMessage(`{"isrc":null}`)
	if err := validateStructuredJSON(schema, nullValue); err != nil {
		t.Fatalf("validateStructuredJSON(null value) error = %v", err)
	}

	missing := json.RawMessage(`{}`)
	if err := validateStructuredJSON(schema, missing); err == nil {
		t.Fatal("validateStructuredJSON(missing required) expected error, got nil")
	}

	extra := json.RawMessage(`{"isrc":null,"bonus":"x"}`)
	if err := validateStructuredJSON(schema, extra); err == nil {
		t.Fatal("validateStructuredJSON(additional property) expected error, got nil")
	}
}

func TestValidateStructuredJSON_BareSchema(t *testing.T) {
	// A schema without the {name,strict,schema} wrapper is used as-is.
	schema := json.RawMessage(`{
		"type":"object",
		"properties":{"n":{"type":"integer"}},
		"required":["n"]
	}`)

	if err := validateStructuredJSON(schema, json.RawMessage(`{"n":1}`)); err != nil {
		t.Fatalf("validateStructuredJSON() error = %v", err)
	}
	if err := validateStructuredJSON(schema, json.RawMessage(`{"n":"one"}`)); err == nil {
		t.Fatal("expected type error, got nil")
	}
}
