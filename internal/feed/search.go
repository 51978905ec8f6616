package feed

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nimbusfeed/backend/internal/apperrors"
	"github.com/nimbusfeed/backend/internal/index"
	"github.com/nimbusfeed/backend/internal/models"
	"github.com/nimbusfeed/backend/internal/store"
)

// ErrSuperseded reports that a newer query was issued while this search was
// in flight. The stale results are dropped, never applied.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Searcher resolves keyword searches against the post store, through the
// keyword index when one is configured and by a store-side keyword query
// otherwise. Both strategies return the same result set.
//
// Within a session the last issued query wins: a completion that observes a
// newer query sequence discards its results.
type Searcher struct {
	posts *store.PostStore
	idx   index.Index
	log   *zap.Logger
	seq   atomic.Uint64
}

// NewSearcher creates a new Searcher. idx may be nil, selecting the derived
// query strategy.
func NewSearcher(posts *store.PostStore, idx index.Index, log *zap.Logger) *Searcher {
	return &Searcher{posts: posts, idx: idx, log: log}
}

// Search returns the posts carrying the term, normalized the same way post
// keywords are. Searches are not retried; the caller re-issues the query on
// failure.
func (s *Searcher) Search(ctx context.Context, term string) ([]*models.Post, error) {
	term = models.NormalizeKeyword(term)
	if term == "" {
		return nil, apperrors.New(apperrors.KindValidation, "search term must not be empty")
	}

	ticket := s.seq.Add(1)
	posts, err := s.lookup(ctx, term)
	if s.seq.Load() != ticket {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Invalidate drops interest in any in-flight search, e.g. when the caller
// navigates away. The underlying store call is not cancelled; its results
// are simply discarded.
func (s *Searcher) Invalidate() {
	s.seq.Add(1)
}

func (s *Searcher) lookup(ctx context.Context, term string) ([]*models.Post, error) {
	if s.idx == nil {
		return s.posts.ByKeyword(ctx, term)
	}

	ids, err := s.idx.PostIDs(ctx, term)
	if err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.posts.Get(ctx, id)
		if err != nil {
			// The index is derived and may briefly trail the store.
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				s.log.Debug("index entry without record, skipping", zap.String("post_id", id))
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}
