package intake

import "sync"

// SessionStore maps a sender address to that sender's in-progress session.
// The interface exists so a durable or distributed backing store can be
// swapped in without changing transition logic.
type SessionStore interface {
	Get(from string) (*Session, bool)
	Put(from string, s *Session)
	Delete(from string)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns the default in-process store. Sessions do not
// survive a restart; turns for the same sender are expected to arrive
// serially from the platform, so no per-session ordering is enforced.
func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (m *memoryStore) Get(from string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[from]
	return s, ok
}

func (m *memoryStore) Put(from string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[from] = s
}

func (m *memoryStore) Delete(from string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, from)
}
