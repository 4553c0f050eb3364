package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jackzampolin/maestro/internal/calls"
	"github.com/jackzampolin/maestro/internal/metrics"
	"github.com/jackzampolin/maestro/internal/prompts"
	"github.com/jackzampolin/maestro/internal/prompts/releasemeta"
	"github.com/jackzampolin/maestro/internal/providers"
)

const fullJSON = `{
	"primary_artist": "Jane Doe",
	"title": "Midnight Drive",
	"upc": "884977968484",
	"isrc": "usrc17607839",
	"release_date": "2026-09-18",
	"label": null,
	"country": "CO",
	"genre": "Popular",
	"description": "Debut single.",
	"release_type": "Single + Video"
}`

func structuredMock(payload string) *providers.MockClient {
	c := providers.NewMockClient()
	c.Latency = 0
	c.ResponseJSON = json.RawMessage(payload)
	return c
}

// captureClient records the last request and replays a canned result.
type captureClient struct {
	lastReq *providers.ChatRequest
	result  *providers.ChatResult
	err     error
}

func (c *captureClient) Chat(_ context.Context, req *providers.ChatRequest) (*providers.ChatResult, error) {
	c.lastReq = req
	return c.result, c.err
}

func (c *captureClient) Name() string { return "capture" }

func TestExtractSuccess(t *testing.T) {
	mock := structuredMock(fullJSON)
	callLog := calls.NewLog(0)
	store := metrics.NewStore(0)

	e, err := New(Config{Client: mock, Calls: callLog, Metrics: store})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec, err := e.Extract(context.Background(), "New single from Jane Doe, ISRC usrc17607839", Opts{SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.PrimaryArtist != "Jane Doe" {
		t.Errorf("PrimaryArtist = %q", rec.PrimaryArtist)
	}
	if rec.Label != "" {
		t.Errorf("Label = %q, want empty; defaults are applied at validation", rec.Label)
	}
	if rec.ISRC != "usrc17607839" {
		t.Errorf("ISRC = %q, want raw lowercase value; normalization happens at validation", rec.ISRC)
	}
	if string(rec.ReleaseType) != "Single + Video" {
		t.Errorf("ReleaseType = %q, want raw value untouched", rec.ReleaseType)
	}

	if callLog.Len() != 1 {
		t.Fatalf("call log entries = %d, want 1", callLog.Len())
	}
	logged := callLog.List()[0]
	if logged.SessionID != "sess-1" {
		t.Errorf("logged SessionID = %q", logged.SessionID)
	}
	if logged.PromptKey != releasemeta.SystemPromptKey {
		t.Errorf("logged PromptKey = %q", logged.PromptKey)
	}

	extracts := store.List(metrics.Filter{Stage: metrics.StageExtract}, 0)
	if len(extracts) != 1 {
		t.Fatalf("extract metrics = %d, want 1", len(extracts))
	}
	if !extracts[0].Success {
		t.Error("metric Success = false")
	}
}

func TestExtractEmptyInput(t *testing.T) {
	mock := structuredMock(fullJSON)
	e, _ := New(Config{Client: mock})

	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if _, err := e.Extract(context.Background(), input, Opts{}); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Extract(%q) error = %v, want ErrEmptyInput", input, err)
		}
	}

	if mock.RequestCount() != 0 {
		t.Errorf("RequestCount = %d, want 0; empty input must not reach the provider", mock.RequestCount())
	}
}

func TestExtractUpstreamError(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true

	e, _ := New(Config{Client: mock})
	_, err := e.Extract(context.Background(), "some text", Opts{})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Extract() error = %T, want *UpstreamError", err)
	}
	if upstream.Provider != providers.MockClientName {
		t.Errorf("Provider = %q", upstream.Provider)
	}
	if upstream.Unwrap() == nil {
		t.Error("Unwrap() = nil")
	}
}

func TestExtractMalformedResponse(t *testing.T) {
	t.Run("schema mismatch", func(t *testing.T) {
		mock := structuredMock(`{"primary_artist": "Jane Doe"}`)
		e, _ := New(Config{Client: mock})

		_, err := e.Extract(context.Background(), "some text", Opts{})

		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("Extract() error = %T, want *MalformedResponseError", err)
		}
		if malformed.Kind != providers.ErrTypeSchemaValidation {
			t.Errorf("Kind = %q, want %q", malformed.Kind, providers.ErrTypeSchemaValidation)
		}
	})

	t.Run("no structured payload", func(t *testing.T) {
		// Mock succeeds but never fills ParsedJSON.
		mock := providers.NewMockClient()
		mock.Latency = 0

		e, _ := New(Config{Client: mock})
		_, err := e.Extract(context.Background(), "some text", Opts{})

		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("Extract() error = %T, want *MalformedResponseError", err)
		}
		if malformed.Kind != providers.ErrTypeJSONParse {
			t.Errorf("Kind = %q, want %q", malformed.Kind, providers.ErrTypeJSONParse)
		}
	})
}

func TestExtractPromptOverride(t *testing.T) {
	client := &captureClient{
		result: &providers.ChatResult{
			Content:    fullJSON,
			ParsedJSON: json.RawMessage(fullJSON),
			Provider:   "capture",
			Success:    true,
		},
	}

	resolver := prompts.NewResolver(nil)
	releasemeta.RegisterPrompts(resolver)
	resolver.SetOverrides(map[string]string{
		releasemeta.UserPromptKey: "OVERRIDE TEXT: {{.RawText}}",
	})

	e, _ := New(Config{Client: client, Resolver: resolver})
	if _, err := e.Extract(context.Background(), "raw input", Opts{}); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if client.lastReq == nil || len(client.lastReq.Messages) != 2 {
		t.Fatal("request not captured")
	}
	if got := client.lastReq.Messages[1].Content; got != "OVERRIDE TEXT: raw input" {
		t.Errorf("user message = %q, want override rendering", got)
	}
	if got := client.lastReq.Messages[0].Content; got != releasemeta.SystemPrompt() {
		t.Error("system message should stay on the embedded default")
	}
}

func TestExtractModelOverride(t *testing.T) {
	client := &captureClient{
		result: &providers.ChatResult{
			ParsedJSON: json.RawMessage(fullJSON),
			Provider:   "capture",
			Success:    true,
		},
	}

	e, _ := New(Config{Client: client, Model: "custom-model"})
	if _, err := e.Extract(context.Background(), "raw input", Opts{}); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if client.lastReq.Model != "custom-model" {
		t.Errorf("Model = %q, want custom-model", client.lastReq.Model)
	}
	if !strings.Contains(client.lastReq.Messages[1].Content, "raw input") {
		t.Error("user message missing raw text")
	}
}

func TestExtractRecordsFailures(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	callLog := calls.NewLog(0)
	store := metrics.NewStore(0)

	e, _ := New(Config{Client: mock, Calls: callLog, Metrics: store})
	if _, err := e.Extract(context.Background(), "some text", Opts{}); err == nil {
		t.Fatal("expected error")
	}

	if callLog.Len() != 1 {
		t.Errorf("call log entries = %d, want 1; failures are recorded too", callLog.Len())
	}
	success := false
	if got := len(store.List(metrics.Filter{Success: &success}, 0)); got != 1 {
		t.Errorf("failed metrics = %d, want 1", got)
	}
}

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNoClient) {
		t.Errorf("New() error = %v, want ErrNoClient", err)
	}
}
