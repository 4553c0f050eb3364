// Package session tracks a release through the review loop: extract,
// validate, edit, and script generation. Sessions are held in memory and
// guarded so concurrent API calls cannot corrupt the pipeline state.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackzampolin/maestro/internal/release"
	"github.com/jackzampolin/maestro/internal/schema"
	"github.com/jackzampolin/maestro/internal/script"
	"github.com/jackzampolin/maestro/internal/validate"
)

// State represents where a session is in the review loop.
type State string

const (
	StateEmpty     State = "empty"
	StateExtracted State = "extracted"
	StateValidated State = "validated"
	StateGenerated State = "generated"
)

var stateRank = map[State]int{
	StateEmpty:     0,
	StateExtracted: 1,
	StateValidated: 2,
	StateGenerated: 3,
}

func (s State) atLeast(other State) bool {
	return stateRank[s] >= stateRank[other]
}

var (
	// ErrNotFound is returned when a session ID is unknown.
	ErrNotFound = errors.New("session not found")

	// ErrNotExtracted is returned when an operation needs an extracted
	// record but none exists yet.
	ErrNotExtracted = errors.New("session has no extracted record yet")

	// ErrNotValidated is returned when script generation is requested
	// before validation.
	ErrNotValidated = errors.New("session has not been validated yet")

	// ErrBlocked is returned when script generation is requested while
	// the verdict still has blocking errors.
	ErrBlocked = errors.New("validation found blocking errors")
)

// Session is a single release moving through the review loop.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	id        string
	createdAt time.Time
	updatedAt time.Time

	state    State
	rawText  string
	provider string
	record   release.Record
	verdict  *validate.Verdict
	script   string
}

func newSession(id string) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		createdAt: now,
		updatedAt: now,
		state:     StateEmpty,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current pipeline state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// UpdatedAt returns the time of the last state change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// SetExtracted stores a fresh extraction result. Allowed from any state:
// re-extracting replaces the working record and discards any previous
// verdict and script.
func (s *Session) SetExtracted(rawText string, candidate release.Record, provider string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rawText = rawText
	s.record = candidate
	s.provider = provider
	s.verdict = nil
	s.script = ""
	s.state = StateExtracted
	s.updatedAt = time.Now()
}

// ApplyEdit sets a single field on the working record. The verdict and
// script are discarded so the edit must be re-validated before a script
// can be generated. Editing release_type only accepts the canonical
// portal values since free text there would bypass classification.
func (s *Session) ApplyEdit(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.atLeast(StateExtracted) {
		return ErrNotExtracted
	}

	if field == "release_type" {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" && !release.Type(trimmed).Canonical() {
			return fmt.Errorf("release_type must be one of %q, %q, %q",
				release.TypeNewSingle, release.TypeNewAlbum, release.TypeNewEP)
		}
		value = trimmed
	}

	if err := schema.SetField(&s.record, field, value); err != nil {
		return err
	}

	s.verdict = nil
	s.script = ""
	s.state = StateExtracted
	s.updatedAt = time.Now()
	return nil
}

// Validate runs the deterministic rules over the working record. The
// normalized record from the verdict becomes the new working record so
// later edits start from what the reviewer sees.
func (s *Session) Validate() (validate.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.atLeast(StateExtracted) {
		return validate.Verdict{}, ErrNotExtracted
	}

	verdict := validate.Run(s.record, s.rawText)
	s.verdict = &verdict
	s.record = verdict.Record
	s.script = ""
	s.state = StateValidated
	s.updatedAt = time.Now()
	return verdict, nil
}

// Generate renders the console script for the validated record. Requires
// a verdict with no blocking errors.
func (s *Session) Generate(gen *script.Generator) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.atLeast(StateValidated) {
		return "", ErrNotValidated
	}
	if s.verdict == nil || s.verdict.Blocking {
		return "", ErrBlocked
	}

	out, err := gen.Generate(s.verdict.Record)
	if err != nil {
		return "", err
	}

	s.script = out
	s.state = StateGenerated
	s.updatedAt = time.Now()
	return out, nil
}

// Snapshot is a point-in-time copy of a session for JSON rendering.
type Snapshot struct {
	ID        string            `json:"id"`
	State     State             `json:"state"`
	Provider  string            `json:"provider,omitempty"`
	RawText   string            `json:"raw_text,omitempty"`
	Record    release.Record    `json:"record"`
	Verdict   *validate.Verdict `json:"verdict,omitempty"`
	Script    string            `json:"script,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		Provider:  s.provider,
		RawText:   s.rawText,
		Record:    s.record,
		Script:    s.script,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	if s.verdict != nil {
		verdict := *s.verdict
		snap.Verdict = &verdict
	}
	return snap
}
