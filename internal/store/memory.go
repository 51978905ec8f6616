package store

import (
	"context"
	"sync"
	"time"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

// MemoryStore is a map-backed DocumentStore used in tests and local runs.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

// Create inserts a new document under id
func (s *MemoryStore) Create(ctx context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collections[collection]
	if coll == nil {
		coll = make(map[string]Document)
		s.collections[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return apperrors.New(apperrors.KindConflict, "document already exists: "+id)
	}
	stored := cloneDocument(doc)
	stored["_id"] = id
	coll[id] = stored
	return nil
}

// Get returns the document stored under id
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "document not found: "+id)
	}
	return cloneDocument(doc), nil
}

// Update merges the given fields into an existing document
func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "document not found: "+id)
	}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		doc[k] = cloneValue(v)
	}
	return nil
}

// Delete removes the document under id
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collections[collection]
	if _, ok := coll[id]; !ok {
		return apperrors.New(apperrors.KindNotFound, "document not found: "+id)
	}
	delete(coll, id)
	return nil
}

// ListAll returns every document in the collection
func (s *MemoryStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll := s.collections[collection]
	docs := make([]Document, 0, len(coll))
	for _, doc := range coll {
		docs = append(docs, cloneDocument(doc))
	}
	return docs, nil
}

// QueryByField returns documents whose field satisfies the operator against value
func (s *MemoryStore) QueryByField(ctx context.Context, collection, field, op string, value any) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for _, doc := range s.collections[collection] {
		match, err := fieldMatches(doc[field], op, value)
		if err != nil {
			return nil, err
		}
		if match {
			docs = append(docs, cloneDocument(doc))
		}
	}
	return docs, nil
}

func fieldMatches(field any, op string, value any) (bool, error) {
	switch op {
	case OpEqual:
		return field == value, nil
	case OpNotEqual:
		return field != value, nil
	case OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual:
		cmp, ok := compareValues(field, value)
		if !ok {
			return false, nil
		}
		switch op {
		case OpGreater:
			return cmp > 0, nil
		case OpGreaterOrEqual:
			return cmp >= 0, nil
		case OpLess:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	case OpArrayContains:
		switch arr := field.(type) {
		case []string:
			for _, v := range arr {
				if v == value {
					return true, nil
				}
			}
		case []any:
			for _, v := range arr {
				if v == value {
					return true, nil
				}
			}
		}
		return false, nil
	default:
		return false, apperrors.New(apperrors.KindValidation, "unsupported query operator: "+op)
	}
}

func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case av.Before(bv):
			return -1, true
		case av.After(bv):
			return 1, true
		default:
			return 0, true
		}
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func cloneDocument(doc Document) Document {
	clone := make(Document, len(doc))
	for k, v := range doc {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		return append([]any(nil), val...)
	default:
		return v
	}
}
