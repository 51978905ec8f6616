package feed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nimbusfeed/backend/internal/apperrors"
	"github.com/nimbusfeed/backend/internal/blob"
	"github.com/nimbusfeed/backend/internal/identity"
	"github.com/nimbusfeed/backend/internal/index"
	"github.com/nimbusfeed/backend/internal/models"
	"github.com/nimbusfeed/backend/internal/store"
)

// PostService owns the post lifecycle: creation with validation and keyword
// indexing, author-only deletion with blob cleanup, and feed reads.
type PostService struct {
	posts *store.PostStore
	idx   index.Index
	blobs blob.Store
	log   *zap.Logger
}

// NewPostService creates a new PostService. idx and blobs may be nil when the
// deployment runs without an incremental index or an object store.
func NewPostService(posts *store.PostStore, idx index.Index, blobs blob.Store, log *zap.Logger) *PostService {
	return &PostService{posts: posts, idx: idx, blobs: blobs, log: log}
}

// Create validates and stores a new post on behalf of the actor. The post id
// is the creation timestamp in milliseconds; a collision under extremely
// rapid creation is a conflict, never an overwrite. Store write and index
// update form one logical unit: when indexing fails the record is rolled
// back.
func (s *PostService) Create(ctx context.Context, actor *identity.Actor, req models.CreatePostRequest) (*models.Post, error) {
	if err := identity.Require(actor); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.New(apperrors.KindValidation, "post content must not be empty")
	}
	keywords, err := models.NormalizeKeywords(req.Keywords)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &models.Post{
		ID:         models.NewPostID(now),
		Content:    content,
		AuthorID:   actor.ID,
		AuthorName: actor.Name(),
		CreatedAt:  now,
		LikeCount:  0,
		LikedBy:    []string{},
		ImageURL:   req.ImageURL,
		Keywords:   keywords,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	if s.idx != nil {
		if err := s.idx.Add(ctx, post); err != nil {
			if delErr := s.posts.Delete(ctx, post.ID); delErr != nil {
				s.log.Error("post rollback after index failure also failed",
					zap.String("post_id", post.ID), zap.Error(delErr))
			}
			return nil, apperrors.Wrap(apperrors.KindRemote, "keyword indexing failed, post rolled back", err)
		}
	}

	s.log.Info("post created",
		zap.String("post_id", post.ID),
		zap.String("author_id", post.AuthorID),
		zap.Int("keywords", len(post.Keywords)))
	return post, nil
}

// UploadImage validates and stores a post image, returning its download URL
// for use in a subsequent Create. The object is namespaced under the actor's
// id.
func (s *PostService) UploadImage(ctx context.Context, actor *identity.Actor, filename, contentType string, size int64, r io.Reader) (string, error) {
	if err := identity.Require(actor); err != nil {
		return "", err
	}
	if s.blobs == nil {
		return "", apperrors.New(apperrors.KindRemote, "no object store is configured")
	}
	if err := blob.ValidateImage(contentType, size); err != nil {
		return "", err
	}

	path := fmt.Sprintf("posts/%s/%d_%s", actor.ID, time.Now().UnixMilli(), filename)
	url, err := s.blobs.Upload(ctx, path, r, contentType)
	if err != nil {
		return "", err
	}
	s.log.Info("image uploaded",
		zap.String("author_id", actor.ID),
		zap.String("path", path))
	return url, nil
}

// DeleteResult reports best-effort cleanup outcomes of a post deletion. The
// record itself is gone whenever Delete returns without error; cleanup
// failures are surfaced here instead of blocking the deletion.
type DeleteResult struct {
	BlobCleanupErr  error
	IndexCleanupErr error
}

// Delete removes a post. Only the author may delete their post. An attached
// image blob is deleted best-effort, and the keyword index entry is dropped;
// failures of either are logged and surfaced in the result.
func (s *PostService) Delete(ctx context.Context, actor *identity.Actor, id string) (*DeleteResult, error) {
	if err := identity.Require(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, apperrors.New(apperrors.KindAuth, "only the author may delete a post")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return nil, err
	}

	result := &DeleteResult{}
	if s.idx != nil {
		if err := s.idx.Remove(ctx, post); err != nil {
			result.IndexCleanupErr = err
			s.log.Warn("keyword index cleanup failed, index can be rebuilt",
				zap.String("post_id", id), zap.Error(err))
		}
	}
	if s.blobs != nil && post.ImageURL != "" {
		if err := s.deleteImage(ctx, post.ImageURL); err != nil {
			result.BlobCleanupErr = err
			s.log.Warn("image cleanup failed",
				zap.String("post_id", id),
				zap.String("image_url", post.ImageURL),
				zap.Error(err))
		}
	}

	s.log.Info("post deleted", zap.String("post_id", id))
	return result, nil
}

// Feed returns all posts, newest first.
func (s *PostService) Feed(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Chronological(posts), nil
}

// PostsByAuthor returns the author's posts, newest first.
func (s *PostService) PostsByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	posts, err := s.posts.ByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return Chronological(posts), nil
}

// Get returns a single post by id.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.Get(ctx, id)
}

// RebuildIndex derives the keyword index from the full post collection.
func (s *PostService) RebuildIndex(ctx context.Context) error {
	if s.idx == nil {
		return nil
	}
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return err
	}
	return s.idx.Rebuild(ctx, posts)
}

func (s *PostService) deleteImage(ctx context.Context, imageURL string) error {
	path, err := blob.ObjectPathFromURL(imageURL)
	if err != nil {
		return err
	}
	return s.blobs.Delete(ctx, path)
}
