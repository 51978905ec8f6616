// Package history keeps the session's recent search terms: a small
// deduplicated most-recent-first list, persisted locally and never shared
// across sessions.
package history

import (
	"sync"

	"github.com/nimbusfeed/backend/internal/models"
)

// MaxEntries bounds the history length.
const MaxEntries = 10

// Store persists the term list between sessions.
type Store interface {
	Load() ([]string, error)
	Save(terms []string) error
}

// History is a bounded MRU list of distinct normalized search terms.
type History struct {
	mu    sync.Mutex
	terms []string
	store Store
}

// New creates a History backed by store. A nil store keeps the history
// in memory only.
func New(store Store) (*History, error) {
	h := &History{store: store}
	if store != nil {
		terms, err := store.Load()
		if err != nil {
			return nil, err
		}
		if len(terms) > MaxEntries {
			terms = terms[:MaxEntries]
		}
		h.terms = terms
	}
	return h, nil
}

// Add records a term, moving it to the front when already present and
// truncating the list to MaxEntries.
func (h *History) Add(term string) error {
	term = models.NormalizeKeyword(term)
	if term == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	terms := make([]string, 0, len(h.terms)+1)
	terms = append(terms, term)
	for _, t := range h.terms {
		if t != term {
			terms = append(terms, t)
		}
	}
	if len(terms) > MaxEntries {
		terms = terms[:MaxEntries]
	}
	h.terms = terms
	return h.persist()
}

// Remove deletes the term from the history if present.
func (h *History) Remove(term string) error {
	term = models.NormalizeKeyword(term)
	h.mu.Lock()
	defer h.mu.Unlock()

	terms := h.terms[:0]
	for _, t := range h.terms {
		if t != term {
			terms = append(terms, t)
		}
	}
	h.terms = terms
	return h.persist()
}

// Clear empties the history.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.terms = nil
	return h.persist()
}

// Terms returns the history, most recent first.
func (h *History) Terms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.terms...)
}

func (h *History) persist() error {
	if h.store == nil {
		return nil
	}
	return h.store.Save(append([]string(nil), h.terms...))
}
