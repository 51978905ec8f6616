package blob

import (
	"context"
	"io"
	"net/url"
	"sync"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

// MemoryStore is an in-process Store used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Upload stores the object bytes and returns a synthetic download URL
func (s *MemoryStore) Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindRemote, "image upload failed", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return "https://blob.test/o/" + url.QueryEscape(path) + "?alt=media", nil
}

// Delete removes the object under path
func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return apperrors.New(apperrors.KindNotFound, "object not found: "+path)
	}
	delete(s.objects, path)
	return nil
}

// Has reports whether an object exists under path.
func (s *MemoryStore) Has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok
}
