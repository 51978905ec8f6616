package index

import (
	"context"
	"sort"
	"sync"

	"github.com/nimbusfeed/backend/internal/models"
)

// Memory is a mutex-guarded in-process Index.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]map[string]bool
}

// NewMemory creates an empty in-memory index
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]map[string]bool)}
}

// Add registers the post id under each of the post's keywords
func (m *Memory) Add(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(post)
	return nil
}

// Remove drops the post id from each of the post's keywords
func (m *Memory) Remove(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, kw := range post.Keywords {
		ids := m.entries[kw]
		delete(ids, post.ID)
		if len(ids) == 0 {
			delete(m.entries, kw)
		}
	}
	return nil
}

// PostIDs returns the ids of posts carrying the term, sorted for determinism
func (m *Memory) PostIDs(ctx context.Context, term string) ([]string, error) {
	term = models.NormalizeKeyword(term)
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.entries[term]))
	for id := range m.entries[term] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Rebuild replaces the whole index with entries derived from posts
func (m *Memory) Rebuild(ctx context.Context, posts []*models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]map[string]bool)
	for _, post := range posts {
		m.add(post)
	}
	return nil
}

func (m *Memory) add(post *models.Post) {
	for _, kw := range post.Keywords {
		ids := m.entries[kw]
		if ids == nil {
			ids = make(map[string]bool)
			m.entries[kw] = ids
		}
		ids[post.ID] = true
	}
}
