package feed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nimbusfeed/backend/internal/apperrors"
	"github.com/nimbusfeed/backend/internal/blob"
	"github.com/nimbusfeed/backend/internal/identity"
	"github.com/nimbusfeed/backend/internal/index"
	"github.com/nimbusfeed/backend/internal/models"
	"github.com/nimbusfeed/backend/internal/store"
)

type failingIndex struct{}

func (failingIndex) Add(ctx context.Context, post *models.Post) error {
	return apperrors.New(apperrors.KindRemote, "index unavailable")
}

func (failingIndex) Remove(ctx context.Context, post *models.Post) error {
	return apperrors.New(apperrors.KindRemote, "index unavailable")
}

func (failingIndex) PostIDs(ctx context.Context, term string) ([]string, error) {
	return nil, apperrors.New(apperrors.KindRemote, "index unavailable")
}

func (failingIndex) Rebuild(ctx context.Context, posts []*models.Post) error {
	return apperrors.New(apperrors.KindRemote, "index unavailable")
}

var author = &identity.Actor{ID: "u1", DisplayName: "User One"}

func newService(t *testing.T) (*PostService, *store.PostStore, *index.Memory, *blob.MemoryStore) {
	t.Helper()
	posts := store.NewPostStore(store.NewMemoryStore())
	idx := index.NewMemory()
	blobs := blob.NewMemoryStore()
	return NewPostService(posts, idx, blobs, zap.NewNop()), posts, idx, blobs
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	svc, posts, idx, _ := newService(t)

	created, err := svc.Create(ctx, author, models.CreatePostRequest{
		Content:  "  hello world  ",
		Keywords: []string{" Go ", "go", "Rust"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "hello world", created.Content)
	assert.Equal(t, "u1", created.AuthorID)
	assert.Equal(t, "User One", created.AuthorName)
	assert.Equal(t, []string{"go", "rust"}, created.Keywords)
	assert.Equal(t, 0, created.LikeCount)
	assert.Empty(t, created.LikedBy)

	stored, err := posts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Content, stored.Content)

	ids, err := idx.PostIDs(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, ids)
}

func TestCreatePostAnonymousDisplayName(t *testing.T) {
	svc, _, _, _ := newService(t)

	created, err := svc.Create(context.Background(), &identity.Actor{ID: "u9"}, models.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", created.AuthorName)
}

func TestCreatePostRequiresActor(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.Create(context.Background(), nil, models.CreatePostRequest{Content: "hi"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuth))
}

func TestCreatePostValidation(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, author, models.CreatePostRequest{Content: "   "})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Create(ctx, author, models.CreatePostRequest{
		Content:  "hi",
		Keywords: []string{"a", "b", "c", "d", "e", "f"},
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Create(ctx, author, models.CreatePostRequest{
		Content:  "hi",
		Keywords: []string{strings.Repeat("k", 21)},
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreatePostRollsBackOnIndexFailure(t *testing.T) {
	ctx := context.Background()
	posts := store.NewPostStore(store.NewMemoryStore())
	svc := NewPostService(posts, failingIndex{}, nil, zap.NewNop())

	_, err := svc.Create(ctx, author, models.CreatePostRequest{
		Content:  "hi",
		Keywords: []string{"go"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindRemote))

	// Store and index moved as one unit: the record was rolled back.
	all, err := posts.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	svc, _, _, blobs := newService(t)

	url, err := svc.UploadImage(ctx, author, "pic.png", "image/png", 128, strings.NewReader("png-bytes"))
	require.NoError(t, err)

	path, err := blob.ObjectPathFromURL(url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "posts/u1/"))
	assert.True(t, blobs.Has(path))
}

func TestUploadImageRejectsInvalidUploads(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService(t)

	_, err := svc.UploadImage(ctx, nil, "pic.png", "image/png", 128, strings.NewReader("x"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuth))

	_, err = svc.UploadImage(ctx, author, "doc.pdf", "application/pdf", 128, strings.NewReader("x"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.UploadImage(ctx, author, "pic.png", "image/png", blob.MaxImageBytes+1, strings.NewReader("x"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestDeletePostAuthorOnly(t *testing.T) {
	ctx := context.Background()
	svc, posts, _, _ := newService(t)

	created, err := svc.Create(ctx, author, models.CreatePostRequest{Content: "mine"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, &identity.Actor{ID: "intruder"}, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuth))

	_, err = posts.Get(ctx, created.ID)
	assert.NoError(t, err)
}

func TestDeletePostRemovesRecordAndIndexEntry(t *testing.T) {
	ctx := context.Background()
	svc, posts, idx, _ := newService(t)

	created, err := svc.Create(ctx, author, models.CreatePostRequest{
		Content:  "tagged",
		Keywords: []string{"go"},
	})
	require.NoError(t, err)

	result, err := svc.Delete(ctx, author, created.ID)
	require.NoError(t, err)
	assert.Nil(t, result.BlobCleanupErr)
	assert.Nil(t, result.IndexCleanupErr)

	_, err = posts.Get(ctx, created.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	ids, err := idx.PostIDs(ctx, "go")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeletePostCleansUpImageBlob(t *testing.T) {
	ctx := context.Background()
	svc, _, _, blobs := newService(t)

	url, err := blobs.Upload(ctx, "posts/u1/pic.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)

	created, err := svc.Create(ctx, author, models.CreatePostRequest{Content: "with image", ImageURL: url})
	require.NoError(t, err)

	result, err := svc.Delete(ctx, author, created.ID)
	require.NoError(t, err)
	assert.Nil(t, result.BlobCleanupErr)
	assert.False(t, blobs.Has("posts/u1/pic.png"))
}

func TestDeletePostBlobFailureDoesNotBlockDeletion(t *testing.T) {
	ctx := context.Background()
	svc, posts, _, _ := newService(t)

	created, err := svc.Create(ctx, author, models.CreatePostRequest{
		Content:  "with image",
		ImageURL: "https://blob.test/o/missing.png?alt=media",
	})
	require.NoError(t, err)

	result, err := svc.Delete(ctx, author, created.ID)
	require.NoError(t, err)
	assert.Error(t, result.BlobCleanupErr)

	// The record deletion itself went through.
	_, err = posts.Get(ctx, created.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestFeedIsChronological(t *testing.T) {
	ctx := context.Background()
	posts := store.NewPostStore(store.NewMemoryStore())
	svc := NewPostService(posts, nil, nil, zap.NewNop())

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, posts.Create(ctx, &models.Post{
			ID:        id,
			Content:   "c",
			AuthorID:  "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			LikedBy:   []string{},
		}))
	}

	feed, err := svc.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p2", "p1"}, ids(feed))
}

func TestPostsByAuthor(t *testing.T) {
	ctx := context.Background()
	svc, posts, _, _ := newService(t)

	require.NoError(t, posts.Create(ctx, &models.Post{
		ID: "other", Content: "c", AuthorID: "u2", CreatedAt: time.Now(), LikedBy: []string{},
	}))
	created, err := svc.Create(ctx, author, models.CreatePostRequest{Content: "mine"})
	require.NoError(t, err)

	mine, err := svc.PostsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
}
