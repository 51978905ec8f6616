package history

import (
	"path/filepath"
	"sync"
)

// Manager hands out one History per user session, each backed by its own
// file so no two sessions share a list.
type Manager struct {
	dir string

	mu       sync.Mutex
	sessions map[string]*History
}

// NewManager creates a Manager persisting under dir
func NewManager(dir string) *Manager {
	return &Manager{dir: dir, sessions: make(map[string]*History)}
}

// ForUser returns the user's History, loading it on first access.
func (m *Manager) ForUser(userID string) (*History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.sessions[userID]; ok {
		return h, nil
	}
	h, err := New(NewFileStore(filepath.Join(m.dir, userID+".json")))
	if err != nil {
		return nil, err
	}
	m.sessions[userID] = h
	return h, nil
}
