package extract

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the raw text is empty or whitespace only.
// No provider call is made in that case.
var ErrEmptyInput = errors.New("input text is empty")

// ErrNoClient is returned by New when no provider client is configured.
var ErrNoClient = errors.New("no provider client configured")

// UpstreamError wraps a provider transport or API failure. The request
// never produced a usable response, so retrying may help.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response that arrived but could not be
// used: no JSON found, invalid JSON, or JSON failing the record schema.
// Retrying with the same input may still help since model output varies.
type MalformedResponseError struct {
	Provider string
	Kind     string // providers.ErrType* classification
	Detail   string
}

func (e *MalformedResponseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("provider %s returned a malformed response (%s)", e.Provider, e.Kind)
	}
	return fmt.Sprintf("provider %s returned a malformed response (%s): %s", e.Provider, e.Kind, e.Detail)
}
