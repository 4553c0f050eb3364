// Package extract turns free-form release text into a structured record
// candidate using an LLM provider with schema-constrained output.
//
// The extractor returns the candidate exactly as the model produced it.
// Normalization and business rules are applied later by the validate
// package, so a reviewer can always see what the model actually said.
package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackzampolin/maestro/internal/calls"
	"github.com/jackzampolin/maestro/internal/metrics"
	"github.com/jackzampolin/maestro/internal/prompts"
	"github.com/jackzampolin/maestro/internal/prompts/releasemeta"
	"github.com/jackzampolin/maestro/internal/providers"
	"github.com/jackzampolin/maestro/internal/release"
)

// Config configures an Extractor.
type Config struct {
	// Client is the LLM provider to call. Required.
	Client providers.Client

	// Model overrides the provider's default model when set.
	Model string

	// Resolver supplies prompt overrides. Optional.
	Resolver *prompts.Resolver

	// Calls records every provider call for traceability. Optional.
	Calls *calls.Log

	// Metrics records token usage and latency. Optional.
	Metrics *metrics.Store

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Extractor extracts release records from raw text.
type Extractor struct {
	client   providers.Client
	model    string
	resolver *prompts.Resolver
	calls    *calls.Log
	metrics  *metrics.Store
	logger   *slog.Logger
}

// New creates an Extractor from the config.
func New(cfg Config) (*Extractor, error) {
	if cfg.Client == nil {
		return nil, ErrNoClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client:   cfg.Client,
		model:    cfg.Model,
		resolver: cfg.Resolver,
		calls:    cfg.Calls,
		metrics:  cfg.Metrics,
		logger:   logger,
	}, nil
}

// Opts carries per-extraction attribution.
type Opts struct {
	// SessionID links recorded calls and metrics to a review session.
	// Empty for one-shot CLI extractions.
	SessionID string
}

// Extract sends the raw text to the provider and returns the extracted
// candidate record. Empty or whitespace-only input returns ErrEmptyInput
// without calling the provider.
func (e *Extractor) Extract(ctx context.Context, rawText string, opts Opts) (release.Record, error) {
	if strings.TrimSpace(rawText) == "" {
		if e.metrics != nil {
			e.metrics.RecordStage(metrics.RecordOpts{
				SessionID: opts.SessionID,
				Stage:     metrics.StageExtract,
			}, false, "empty_input", 0)
		}
		return release.Record{}, ErrEmptyInput
	}

	input := releasemeta.Input{RawText: rawText}
	if e.resolver != nil {
		if resolved, err := e.resolver.Resolve(releasemeta.SystemPromptKey); err == nil && resolved.IsOverride {
			input.SystemPromptOverride = resolved.Text
		}
		if resolved, err := e.resolver.Resolve(releasemeta.UserPromptKey); err == nil && resolved.IsOverride {
			input.UserPromptOverride = resolved.Text
		}
	}

	req := releasemeta.BuildChatRequest(input)
	req.Model = e.model

	result, err := e.client.Chat(ctx, req)
	e.record(result, opts, req.Temperature)

	if err != nil {
		e.logger.Warn("extraction call failed",
			"provider", e.client.Name(),
			"session_id", opts.SessionID,
			"error", err)
		return release.Record{}, &UpstreamError{Provider: e.client.Name(), Err: err}
	}

	if !result.Success {
		e.logger.Warn("extraction response unusable",
			"provider", result.Provider,
			"session_id", opts.SessionID,
			"error_type", result.ErrorType,
			"error", result.ErrorMessage)
		return release.Record{}, &MalformedResponseError{
			Provider: result.Provider,
			Kind:     result.ErrorType,
			Detail:   result.ErrorMessage,
		}
	}

	if len(result.ParsedJSON) == 0 {
		return release.Record{}, &MalformedResponseError{
			Provider: result.Provider,
			Kind:     providers.ErrTypeJSONParse,
			Detail:   "provider returned no structured payload",
		}
	}

	parsed, err := releasemeta.ParseResult(result.ParsedJSON)
	if err != nil {
		return release.Record{}, &MalformedResponseError{
			Provider: result.Provider,
			Kind:     providers.ErrTypeJSONParse,
			Detail:   err.Error(),
		}
	}

	rec := parsed.Record()
	e.logger.Info("extraction complete",
		"provider", result.Provider,
		"model", result.ModelUsed,
		"session_id", opts.SessionID,
		"latency_ms", result.ExecutionTime.Milliseconds(),
		"total_tokens", result.TotalTokens,
		"release", rec.Summary())
	return rec, nil
}

// Provider returns the name of the configured provider.
func (e *Extractor) Provider() string {
	return e.client.Name()
}

func (e *Extractor) record(result *providers.ChatResult, opts Opts, temperature float64) {
	if result == nil {
		return
	}
	if e.calls != nil {
		e.calls.Record(result, calls.RecordOptions{
			SessionID:   opts.SessionID,
			PromptKey:   releasemeta.SystemPromptKey,
			Temperature: &temperature,
		})
	}
	if e.metrics != nil {
		e.metrics.RecordChatResult(metrics.RecordOpts{
			SessionID: opts.SessionID,
			Stage:     metrics.StageExtract,
		}, result)
	}
}
