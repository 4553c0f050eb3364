package session

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// DefaultMaxSessions bounds the in-memory session map when no limit is given.
const DefaultMaxSessions = 100

// Manager owns the in-memory session map. When the limit is reached the
// least recently updated session is evicted to make room.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
	logger   *slog.Logger
}

// NewManager creates a session manager holding at most max sessions.
func NewManager(max int, logger *slog.Logger) *Manager {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		max:      max,
		logger:   logger,
	}
}

// Create adds a new empty session and returns it.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.max {
		m.evictOldest()
	}

	s := newSession(uuid.New().String())
	m.sessions[s.ID()] = s
	return s
}

// evictOldest drops the least recently updated session.
// Caller must hold the write lock.
func (m *Manager) evictOldest() {
	var oldest *Session
	for _, s := range m.sessions {
		if oldest == nil || s.UpdatedAt().Before(oldest.UpdatedAt()) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(m.sessions, oldest.ID())
		m.logger.Info("evicted idle session", "session_id", oldest.ID(), "state", oldest.State())
	}
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes the session with the given ID.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// List returns snapshots of all sessions, newest first.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snaps = append(snaps, s.Snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
