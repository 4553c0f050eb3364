package providers

import (
	"net/http"
	"time"
)

const (
	OpenRouterName = "openrouter"

	// OpenRouterBaseURL is the OpenAI-compatible API root.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	openRouterDefaultModel   = "google/gemini-flash-1.5"
	openRouterDefaultTimeout = 120 * time.Second
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey       string
	DefaultModel string
	RateLimit    int           // Requests per minute, 0 = unthrottled
	Timeout      time.Duration // HTTP timeout
	BaseURL      string        // Optional (tests)
	HTTPClient   *http.Client  // Optional (tests)
}

// OpenRouterClient routes chat requests through OpenRouter, which fronts
// many model vendors behind one OpenAI-compatible API.
type OpenRouterClient struct {
	chatCaller
	apiKey    string
	rateLimit int
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = openRouterDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = openRouterDefaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}

	return &OpenRouterClient{
		chatCaller: newChatCaller(OpenRouterName, baseURL, cfg.APIKey, cfg.DefaultModel, cfg.Timeout, cfg.RateLimit, cfg.HTTPClient),
		apiKey:     cfg.APIKey,
		rateLimit:  cfg.RateLimit,
	}
}

var _ Client = (*OpenRouterClient)(nil)
