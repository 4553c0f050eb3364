package metrics

import (
	"sync"
	"time"

	"github.com/jackzampolin/maestro/internal/providers"
)

// DefaultCapacity bounds the in-memory store when no capacity is given.
const DefaultCapacity = 1000

// Store is a bounded in-memory metric store. When the capacity is reached
// the oldest metric is dropped. All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	capacity int
	entries  []Metric
}

// NewStore creates a metric store holding at most capacity entries.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// RecordOpts provides attribution for a metric recording.
type RecordOpts struct {
	SessionID string
	Stage     string
}

// Record stores a single metric.
func (s *Store) Record(m Metric) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, m)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[len(s.entries)-s.capacity:]
	}
}

// RecordChatResult records a metric from an LLM chat result.
func (s *Store) RecordChatResult(opts RecordOpts, result *providers.ChatResult) {
	if result == nil {
		return
	}

	s.Record(Metric{
		SessionID:        opts.SessionID,
		Stage:            opts.Stage,
		Provider:         result.Provider,
		Model:            result.ModelUsed,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		TotalTokens:      result.TotalTokens,
		ExecutionSeconds: result.ExecutionTime.Seconds(),
		Success:          result.Success,
		ErrorType:        result.ErrorType,
	})
}

// RecordStage records a metric for a deterministic pipeline stage.
func (s *Store) RecordStage(opts RecordOpts, success bool, errorType string, duration time.Duration) {
	s.Record(Metric{
		SessionID:        opts.SessionID,
		Stage:            opts.Stage,
		ExecutionSeconds: duration.Seconds(),
		Success:          success,
		ErrorType:        errorType,
	})
}

// List returns metrics matching the filter, newest first.
// A limit of 0 returns all matches.
func (s *Store) List(f Filter, limit int) []Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Metric
	for i := len(s.entries) - 1; i >= 0; i-- {
		if !f.matches(s.entries[i]) {
			continue
		}
		result = append(result, s.entries[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result
}

// Len returns the number of stored metrics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
