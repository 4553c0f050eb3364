package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	t.Run("chat", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = "hello world"

		result, err := c.Chat(context.Background(), &ChatRequest{
			Model: "test-model",
			Messages: []Message{
				{Role: RoleUser, Content: "test"},
			},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Errorf("Success = false, want true")
		}
		if result.Content != "hello world" {
			t.Errorf("Content = %q, want %q", result.Content, "hello world")
		}
		if c.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, want 1", c.RequestCount())
		}
	})

	t.Run("structured output", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseJSON = json.RawMessage(`{"title": "Midnight Drive"}`)

		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: RoleUser, Content: "test"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema"},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Fatalf("Success = false: %s", result.ErrorMessage)
		}
		var parsed map[string]string
		if err := json.Unmarshal(result.ParsedJSON, &parsed); err != nil {
			t.Fatalf("ParsedJSON invalid: %v", err)
		}
		if parsed["title"] != "Midnight Drive" {
			t.Errorf("parsed title = %q", parsed["title"])
		}
	})

	t.Run("should fail", func(t *testing.T) {
		c := NewMockClient()
		c.ShouldFail = true

		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "test"}},
		})

		if err == nil {
			t.Fatal("expected error")
		}
		if result.Success {
			t.Error("Success = true, want false")
		}
	})

	t.Run("fail after N", func(t *testing.T) {
		c := NewMockClient()
		c.FailAfter = 2

		for i := 0; i < 2; i++ {
			if _, err := c.Chat(context.Background(), &ChatRequest{
				Messages: []Message{{Role: RoleUser, Content: "test"}},
			}); err != nil {
				t.Fatalf("request %d error = %v", i+1, err)
			}
		}
		if _, err := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "test"}},
		}); err == nil {
			t.Error("request 3 should fail")
		}
	})

	t.Run("reset", func(t *testing.T) {
		c := NewMockClient()
		c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "test"}},
		})
		c.Reset()
		if c.RequestCount() != 0 {
			t.Errorf("RequestCount after Reset = %d, want 0", c.RequestCount())
		}
	})
}

// completionBody builds a minimal OpenAI-dialect completion response.
func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":    "cmpl-1",
		"model": "test-model",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(b)
}

func TestGeminiClientChat(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("a plain answer")))
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})

	result, err := c.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hello"},
		},
		Temperature: 0.1,
		MaxTokens:   256,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if !result.Success {
		t.Fatalf("Success = false: %s", result.ErrorMessage)
	}
	if result.Content != "a plain answer" {
		t.Errorf("Content = %q", result.Content)
	}
	if result.Provider != GeminiName {
		t.Errorf("Provider = %q, want %q", result.Provider, GeminiName)
	}
	if result.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d, want 15", result.TotalTokens)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("request path = %q, want /chat/completions", gotPath)
	}
	if gotBody["model"] != geminiDefaultModel {
		t.Errorf("request model = %v, want %q", gotBody["model"], geminiDefaultModel)
	}
}

func TestChatStructuredOutput(t *testing.T) {
	schema := json.RawMessage(`{
		"name": "test_schema",
		"strict": true,
		"schema": {
			"type": "object",
			"properties": {"title": {"type": "string"}},
			"required": ["title"],
			"additionalProperties": false
		}
	}`)

	t.Run("valid json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(completionBody("```json\n{\"title\": \"ok\"}\n```")))
		}))
		defer srv.Close()

		c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: RoleUser, Content: "x"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: schema},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Fatalf("Success = false: %s", result.ErrorMessage)
		}
		if string(result.ParsedJSON) != `{"title":"ok"}` {
			t.Errorf("ParsedJSON = %s", result.ParsedJSON)
		}
	})

	t.Run("unparseable output", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(completionBody("sorry, I cannot help with that")))
		}))
		defer srv.Close()

		c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: RoleUser, Content: "x"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: schema},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v, want nil for malformed output", err)
		}
		if result.Success {
			t.Fatal("Success = true for unparseable output")
		}
		if result.ErrorType != ErrTypeJSONParse {
			t.Errorf("ErrorType = %q, want %q", result.ErrorType, ErrTypeJSONParse)
		}
	})

	t.Run("schema mismatch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(completionBody(`{"title": 42}`)))
		}))
		defer srv.Close()

		c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: RoleUser, Content: "x"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: schema},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v, want nil for schema mismatch", err)
		}
		if result.Success {
			t.Fatal("Success = true for schema mismatch")
		}
		if result.ErrorType != ErrTypeSchemaValidation {
			t.Errorf("ErrorType = %q, want %q", result.ErrorType, ErrTypeSchemaValidation)
		}
	})
}

func TestChatErrorMapping(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "slow down"}}`))
		}))
		defer srv.Close()

		c := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "x"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if result.ErrorType != ErrTypeRateLimit {
			t.Errorf("ErrorType = %q, want %q", result.ErrorType, ErrTypeRateLimit)
		}
		if result.RetryAfter != 7*time.Second {
			t.Errorf("RetryAfter = %s, want 7s", result.RetryAfter)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "invalid key"}}`))
		}))
		defer srv.Close()

		c := NewGeminiClient(GeminiConfig{APIKey: "bad", BaseURL: srv.URL, HTTPClient: srv.Client()})
		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "x"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if result.ErrorType != ErrTypeAuth {
			t.Errorf("ErrorType = %q, want %q", result.ErrorType, ErrTypeAuth)
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "30", 30 * time.Second},
		{"zero", "0", 0},
		{"negative", "-5", 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.header); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("consume within limit", func(t *testing.T) {
		rl := NewRateLimiter(60)
		for i := 0; i < 10; i++ {
			if !rl.TryConsume() {
				t.Fatalf("TryConsume() = false on request %d", i+1)
			}
		}
	})

	t.Run("exhaustion", func(t *testing.T) {
		rl := NewRateLimiter(5)
		for i := 0; i < 5; i++ {
			rl.TryConsume()
		}
		if rl.TryConsume() {
			t.Error("TryConsume() = true after bucket drained")
		}
	})

	t.Run("wait respects context", func(t *testing.T) {
		rl := NewRateLimiter(1)
		rl.TryConsume()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := rl.Wait(ctx); err == nil {
			t.Error("Wait() = nil, want context error")
		}
	})

	t.Run("record 429 drains", func(t *testing.T) {
		rl := NewRateLimiter(60)
		rl.Record429(time.Second)
		if rl.TryConsume() {
			t.Error("TryConsume() = true right after Record429")
		}
	})

	t.Run("concurrent consume", func(t *testing.T) {
		rl := NewRateLimiter(100)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rl.TryConsume()
			}()
		}
		wg.Wait()

		status := rl.Status()
		if status.TotalConsumed != 50 {
			t.Errorf("TotalConsumed = %d, want 50", status.TotalConsumed)
		}
	})
}

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()
		r.Register("mock", mock)

		got, err := r.Get("mock")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != mock {
			t.Error("Get() returned a different client")
		}
		if !r.Has("mock") {
			t.Error("Has() = false")
		}
	})

	t.Run("get missing", func(t *testing.T) {
		r := NewRegistry()
		if _, err := r.Get("nope"); err == nil {
			t.Error("Get() on missing client: expected error")
		}
	})

	t.Run("from config", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ClientConfig{
				"gemini":   {Type: "gemini", APIKey: "k", Model: "gemini-1.5-flash-latest", Enabled: true},
				"disabled": {Type: "gemini", APIKey: "k", Enabled: false},
				"keyless":  {Type: "openrouter", Enabled: true},
				"mock":     {Type: "mock", Enabled: true},
			},
		})

		if !r.Has("gemini") {
			t.Error("enabled provider with key not registered")
		}
		if r.Has("disabled") {
			t.Error("disabled provider registered")
		}
		if r.Has("keyless") {
			t.Error("keyless provider registered")
		}
		if !r.Has("mock") {
			t.Error("mock provider needs no key but was not registered")
		}
	})

	t.Run("reload", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ClientConfig{
				"gemini": {Type: "gemini", APIKey: "k1", Model: "m", Enabled: true},
			},
		})
		before, _ := r.Get("gemini")

		// Same settings: client survives reload.
		r.Reload(RegistryConfig{
			Providers: map[string]ClientConfig{
				"gemini": {Type: "gemini", APIKey: "k1", Model: "m", Enabled: true},
			},
		})
		after, _ := r.Get("gemini")
		if before != after {
			t.Error("unchanged provider was recreated on reload")
		}

		// Changed key: client recreated.
		r.Reload(RegistryConfig{
			Providers: map[string]ClientConfig{
				"gemini": {Type: "gemini", APIKey: "k2", Model: "m", Enabled: true},
			},
		})
		recreated, _ := r.Get("gemini")
		if recreated == before {
			t.Error("provider with new key was not recreated")
		}

		// Removed from config: unregistered.
		r.Reload(RegistryConfig{Providers: map[string]ClientConfig{}})
		if r.Has("gemini") {
			t.Error("removed provider still registered after reload")
		}
	})

	t.Run("list sorted", func(t *testing.T) {
		r := NewRegistry()
		r.Register("zeta", NewMockClient())
		r.Register("alpha", NewMockClient())
		names := r.List()
		if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
			t.Errorf("List() = %v", names)
		}
	})
}
