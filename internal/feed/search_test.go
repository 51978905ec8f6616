package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nimbusfeed/backend/internal/apperrors"
	"github.com/nimbusfeed/backend/internal/index"
	"github.com/nimbusfeed/backend/internal/models"
	"github.com/nimbusfeed/backend/internal/store"
)

type gatedStore struct {
	store.DocumentStore
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) QueryByField(ctx context.Context, collection, field, op string, value any) ([]store.Document, error) {
	s.entered <- struct{}{}
	<-s.release
	return s.DocumentStore.QueryByField(ctx, collection, field, op, value)
}

func seedSearchPosts(t *testing.T, posts *store.PostStore, idx index.Index) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []*models.Post{
		{ID: "p1", Content: "a", AuthorID: "u1", CreatedAt: time.Now(), LikedBy: []string{}, Keywords: []string{"go", "rust"}},
		{ID: "p2", Content: "b", AuthorID: "u2", CreatedAt: time.Now(), LikedBy: []string{}, Keywords: []string{"rust"}},
		{ID: "p3", Content: "c", AuthorID: "u3", CreatedAt: time.Now(), LikedBy: []string{}, Keywords: []string{"go"}},
		{ID: "p4", Content: "d", AuthorID: "u4", CreatedAt: time.Now(), LikedBy: []string{}},
	} {
		require.NoError(t, posts.Create(ctx, p))
		if idx != nil {
			require.NoError(t, idx.Add(ctx, p))
		}
	}
}

func searchIDs(posts []*models.Post) map[string]bool {
	out := make(map[string]bool, len(posts))
	for _, p := range posts {
		out[p.ID] = true
	}
	return out
}

func TestSearchDerivedStrategy(t *testing.T) {
	posts := store.NewPostStore(store.NewMemoryStore())
	seedSearchPosts(t, posts, nil)
	searcher := NewSearcher(posts, nil, zap.NewNop())

	got, err := searcher.Search(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true, "p3": true}, searchIDs(got))
}

func TestSearchIndexedStrategyMatchesDerived(t *testing.T) {
	ctx := context.Background()
	posts := store.NewPostStore(store.NewMemoryStore())
	idx := index.NewMemory()
	seedSearchPosts(t, posts, idx)

	indexed := NewSearcher(posts, idx, zap.NewNop())
	derived := NewSearcher(posts, nil, zap.NewNop())

	for _, term := range []string{"go", "rust", "missing"} {
		fromIndex, err := indexed.Search(ctx, term)
		require.NoError(t, err)
		fromScan, err := derived.Search(ctx, term)
		require.NoError(t, err)
		assert.Equal(t, searchIDs(fromScan), searchIDs(fromIndex), "term %q", term)
	}
}

func TestSearchNormalizesTerm(t *testing.T) {
	posts := store.NewPostStore(store.NewMemoryStore())
	seedSearchPosts(t, posts, nil)
	searcher := NewSearcher(posts, nil, zap.NewNop())

	got, err := searcher.Search(context.Background(), "  GO ")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true, "p3": true}, searchIDs(got))
}

func TestSearchRejectsEmptyTerm(t *testing.T) {
	posts := store.NewPostStore(store.NewMemoryStore())
	searcher := NewSearcher(posts, nil, zap.NewNop())

	_, err := searcher.Search(context.Background(), "   ")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSearchSupersededResultsAreDropped(t *testing.T) {
	docs := &gatedStore{
		DocumentStore: store.NewMemoryStore(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	posts := store.NewPostStore(docs)
	searcher := NewSearcher(posts, nil, zap.NewNop())

	result := make(chan error, 1)
	go func() {
		_, err := searcher.Search(context.Background(), "go")
		result <- err
	}()

	<-docs.entered
	// A newer query is issued while the first is still in flight.
	searcher.Invalidate()
	close(docs.release)

	assert.ErrorIs(t, <-result, ErrSuperseded)
}
