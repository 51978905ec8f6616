package history

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

// FileStore persists the search history as a small JSON file, the local
// non-shared equivalent of browser storage.
type FileStore struct {
	path string
}

// NewFileStore creates a new FileStore at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted term list. A missing file is an empty history.
func (s *FileStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.KindRemote, "failed to read search history", err)
	}
	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, apperrors.Wrap(apperrors.KindRemote, "corrupt search history file", err)
	}
	return terms, nil
}

// Save writes the term list, creating the parent directory when needed.
func (s *FileStore) Save(terms []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "failed to create history directory", err)
	}
	data, err := json.Marshal(terms)
	if err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "failed to encode search history", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "failed to write search history", err)
	}
	return nil
}
