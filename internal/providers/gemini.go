package providers

import (
	"net/http"
	"time"
)

const (
	GeminiName = "gemini"

	// GeminiBaseURL is Google's OpenAI-compatible endpoint for the
	// Generative Language API.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	geminiDefaultModel   = "gemini-1.5-flash-latest"
	geminiDefaultTimeout = 120 * time.Second
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey       string
	DefaultModel string
	RateLimit    int           // Requests per minute, 0 = unthrottled
	Timeout      time.Duration // HTTP timeout
	BaseURL      string        // Optional (tests)
	HTTPClient   *http.Client  // Optional (tests)
}

// GeminiClient talks to Gemini models through the OpenAI-compatible
// endpoint.
type GeminiClient struct {
	chatCaller
	apiKey    string
	rateLimit int
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = geminiDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = geminiDefaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}

	return &GeminiClient{
		chatCaller: newChatCaller(GeminiName, baseURL, cfg.APIKey, cfg.DefaultModel, cfg.Timeout, cfg.RateLimit, cfg.HTTPClient),
		apiKey:     cfg.APIKey,
		rateLimit:  cfg.RateLimit,
	}
}

var _ Client = (*GeminiClient)(nil)
