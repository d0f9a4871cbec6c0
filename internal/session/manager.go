package session

import (
	"sync"
)

// Manager holds at most one session per identity. Sessions live in process
// memory only; the lock guards the map, not the sessions themselves, since
// a given identity drives its session sequentially.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the identity's session, creating an uninitialized one
// if none exists.
func (m *Manager) GetOrCreate(email string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[email]
	if !ok {
		s = New()
		m.sessions[email] = s
	}
	return s
}

// Active returns the identity's session only if one has been initialized.
func (m *Manager) Active(email string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[email]
	if !ok || s.State() == StateUninitialized {
		return nil, false
	}
	return s, true
}

// Remove discards the identity's session entirely.
func (m *Manager) Remove(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, email)
}
