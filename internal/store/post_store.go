package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimbusfeed/backend/internal/apperrors"
	"github.com/nimbusfeed/backend/internal/models"
)

// PostsCollection is the document-store collection holding post records.
const PostsCollection = "posts"

// PostStore is the typed facade over the document store for post records.
// It encodes posts into loosely-typed documents on the way in and validates
// the fixed record shape on the way out.
type PostStore struct {
	docs DocumentStore
}

// NewPostStore creates a new PostStore
func NewPostStore(docs DocumentStore) *PostStore {
	return &PostStore{docs: docs}
}

// Create stores a new post record. The post id must be unique; a collision
// fails with a conflict error and never overwrites the existing record.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	return s.docs.Create(ctx, PostsCollection, post.ID, encodePost(post))
}

// Get returns the post stored under id.
func (s *PostStore) Get(ctx context.Context, id string) (*models.Post, error) {
	doc, err := s.docs.Get(ctx, PostsCollection, id)
	if err != nil {
		return nil, err
	}
	return decodePost(doc)
}

// UpdateLikes replaces the like ledger of a post with the given post-toggle
// values. The payload is a full replacement, not a delta; the backing store
// has no atomic increment in this design, so the like coordinator serializes
// these commits per post.
func (s *PostStore) UpdateLikes(ctx context.Context, id string, likeCount int, likedBy []string) error {
	if likeCount != len(likedBy) {
		return apperrors.Newf(apperrors.KindValidation,
			"like count %d does not match %d likers", likeCount, len(likedBy))
	}
	return s.docs.Update(ctx, PostsCollection, id, Document{
		"like_count": likeCount,
		"liked_by":   likedBy,
	})
}

// Delete removes the post record under id.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, PostsCollection, id)
}

// ListAll returns every post in the collection, in no particular order.
func (s *PostStore) ListAll(ctx context.Context) ([]*models.Post, error) {
	docs, err := s.docs.ListAll(ctx, PostsCollection)
	if err != nil {
		return nil, err
	}
	return decodePosts(docs)
}

// ByAuthor returns the posts created by the given author.
func (s *PostStore) ByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	docs, err := s.docs.QueryByField(ctx, PostsCollection, "author_id", OpEqual, authorID)
	if err != nil {
		return nil, err
	}
	return decodePosts(docs)
}

// ByKeyword returns the posts carrying the given normalized keyword.
func (s *PostStore) ByKeyword(ctx context.Context, term string) ([]*models.Post, error) {
	docs, err := s.docs.QueryByField(ctx, PostsCollection, "keywords", OpArrayContains, term)
	if err != nil {
		return nil, err
	}
	return decodePosts(docs)
}

func encodePost(post *models.Post) Document {
	likedBy := post.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	doc := Document{
		"content":     post.Content,
		"author_id":   post.AuthorID,
		"author_name": post.AuthorName,
		"created_at":  post.CreatedAt,
		"like_count":  post.LikeCount,
		"liked_by":    likedBy,
	}
	if post.ImageURL != "" {
		doc["image_url"] = post.ImageURL
	}
	if len(post.Keywords) > 0 {
		doc["keywords"] = post.Keywords
	}
	return doc
}

func decodePosts(docs []Document) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(docs))
	for _, doc := range docs {
		post, err := decodePost(doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// decodePost rebuilds the fixed-shape post record from a store document and
// rejects records that violate the like ledger or keyword invariants.
func decodePost(doc Document) (*models.Post, error) {
	post := &models.Post{
		ID:         asString(doc["_id"]),
		Content:    asString(doc["content"]),
		AuthorID:   asString(doc["author_id"]),
		AuthorName: asString(doc["author_name"]),
		CreatedAt:  asTime(doc["created_at"]),
		LikeCount:  asInt(doc["like_count"]),
		LikedBy:    asStrings(doc["liked_by"]),
		ImageURL:   asString(doc["image_url"]),
		Keywords:   asStrings(doc["keywords"]),
	}
	if err := post.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindRemote, "corrupt post record "+post.ID, err)
	}
	return post, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	default:
		return time.Time{}
	}
}

func asStrings(v any) []string {
	switch arr := v.(type) {
	case []string:
		return arr
	case []any:
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case primitive.A:
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
