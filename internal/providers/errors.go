package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	openai "github.com/openai/openai-go/v3"
)

// RateLimitError is returned when a provider responds 429.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
	StatusCode int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// AuthError is returned when a provider rejects the configured API key.
type AuthError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected credentials (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// parseRetryAfter interprets a Retry-After header, either delta-seconds or
// an HTTP date. Unparseable values map to zero.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// mapOpenAIError converts SDK errors into the package's typed errors so
// callers can distinguish rate limits and bad credentials from everything
// else.
func mapOpenAIError(provider string, err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusTooManyRequests:
		retryAfter := time.Duration(0)
		if apiErr.Response != nil {
			retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
		}
		return &RateLimitError{
			Message:    fmt.Sprintf("%s rate limited: %s", provider, apiErr.Message),
			RetryAfter: retryAfter,
			StatusCode: apiErr.StatusCode,
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{
			Provider:   provider,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}

	if apiErr.Message != "" {
		return fmt.Errorf("%s error (status %d): %s", provider, apiErr.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("%s error (status %d)", provider, apiErr.StatusCode)
}
