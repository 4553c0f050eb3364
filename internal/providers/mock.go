package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// sampleReleaseJSON is the canned structured response a config-created mock
// returns, so the whole pipeline can be exercised without credentials.
const sampleReleaseJSON = `{
  "primary_artist": "Jane Doe",
  "title": "Midnight Drive",
  "upc": "884977968484",
  "isrc": "USRC17607839",
  "release_date": "2026-09-18",
  "label": null,
  "country": "CO",
  "genre": "Popular",
  "description": "Debut single from Jane Doe.",
  "release_type": "New Single"
}`

// MockClient is a Client for tests and offline runs.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string
	ResponseJSON json.RawMessage

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency:      time.Millisecond,
		ResponseText: "mock response",
	}
}

// newSampleMockClient returns a mock preloaded with a plausible release
// record, used when config names a provider of type "mock".
func newSampleMockClient() *MockClient {
	c := NewMockClient()
	c.ResponseJSON = json.RawMessage(sampleReleaseJSON)
	return c
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Chat returns the canned response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	result := &ChatResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
	}
	if req != nil {
		result.ModelUsed = req.Model
		if req.RequestID != "" {
			result.RequestID = req.RequestID
		}
	}

	if c.ShouldFail {
		result.Success = false
		result.ErrorType = ErrTypeAPI
		result.ErrorMessage = "mock client configured to fail"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock client configured to fail")
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		result.Success = false
		result.ErrorType = ErrTypeAPI
		result.ErrorMessage = fmt.Sprintf("mock client failed after %d requests", c.FailAfter)
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock client failed after %d requests", c.FailAfter)
	}

	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		result.Success = false
		result.ErrorType = ErrTypeCancelled
		result.ErrorMessage = ctx.Err().Error()
		result.ExecutionTime = time.Since(start)
		return result, ctx.Err()
	}

	result.Success = true
	result.Content = c.ResponseText
	result.ExecutionTime = time.Since(start)

	promptTokens := 0
	if req != nil {
		for _, m := range req.Messages {
			promptTokens += len(m.Content) / 4
		}
	}
	completionTokens := len(c.ResponseText) / 4
	result.PromptTokens = promptTokens
	result.CompletionTokens = completionTokens
	result.TotalTokens = promptTokens + completionTokens

	if req != nil && req.ResponseFormat != nil && len(c.ResponseJSON) > 0 {
		result.Content = string(c.ResponseJSON)
		parsed, err := parseStructuredJSON(result.Content)
		if err != nil {
			result.Success = false
			result.ErrorType = ErrTypeJSONParse
			result.ErrorMessage = err.Error()
			return result, nil
		}
		if err := validateStructuredJSON(req.ResponseFormat.JSONSchema, parsed); err != nil {
			result.Success = false
			result.ErrorType = ErrTypeSchemaValidation
			result.ErrorMessage = err.Error()
			return result, nil
		}
		result.ParsedJSON = parsed
	}

	return result, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
}

var _ Client = (*MockClient)(nil)
