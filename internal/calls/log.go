package calls

import (
	"sync"

	"github.com/jackzampolin/maestro/internal/providers"
)

// DefaultCapacity bounds the in-memory call log when no capacity is given.
const DefaultCapacity = 200

// Log is a bounded in-memory record of recent LLM calls. When the capacity
// is reached the oldest call is dropped. All methods are safe for concurrent
// use.
type Log struct {
	mu       sync.RWMutex
	capacity int
	entries  []*Call
}

// NewLog creates a call log holding at most capacity calls.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Record captures an LLM call and returns the stored entry.
// Returns nil if result is nil.
func (l *Log) Record(result *providers.ChatResult, opts RecordOptions) *Call {
	call := FromChatResult(result, opts)
	l.RecordCall(call)
	return call
}

// RecordCall stores an already-constructed Call.
func (l *Log) RecordCall(call *Call) {
	if call == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, call)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// List returns recorded calls, newest first.
func (l *Log) List() []Call {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Call, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		result = append(result, *l.entries[i])
	}
	return result
}

// Get returns the call with the given ID.
func (l *Log) Get(id string) (*Call, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, call := range l.entries {
		if call.ID == id {
			copied := *call
			return &copied, true
		}
	}
	return nil, false
}

// Len returns the number of recorded calls.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
