package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

const (
	// MaxKeywordsPerPost limits how many keywords a single post may carry.
	MaxKeywordsPerPost = 5
	// MaxKeywordLength limits the length of a single normalized keyword.
	MaxKeywordLength = 20
)

// Post represents a feed entry stored in the posts collection.
type Post struct {
	ID         string    `json:"id" bson:"_id"`
	Content    string    `json:"content" bson:"content"`
	AuthorID   string    `json:"author_id" bson:"author_id"`
	AuthorName string    `json:"author_name" bson:"author_name"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	LikeCount  int       `json:"like_count" bson:"like_count"`
	LikedBy    []string  `json:"liked_by" bson:"liked_by"`
	ImageURL   string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Keywords   []string  `json:"keywords,omitempty" bson:"keywords,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required,min=1,max=500"`
	ImageURL string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Keywords []string `json:"keywords,omitempty" validate:"omitempty,max=5,dive,min=1,max=20"`
}

// NewPostID assigns a post id from the current millisecond timestamp.
// Two posts created within the same millisecond collide; the store treats
// that as a conflict rather than overwriting.
func NewPostID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// NormalizeKeyword trims and lower-cases a keyword or query term. Post
// keywords and search terms must go through the same normalization so that
// indexed and derived lookups agree.
func NormalizeKeyword(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeKeywords normalizes a keyword list and enforces the keyword
// invariants: at most MaxKeywordsPerPost entries, each non-empty and at most
// MaxKeywordLength characters, no duplicates within the list. Order of first
// occurrence is preserved.
func NormalizeKeywords(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(raw))
	normalized := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = NormalizeKeyword(kw)
		if kw == "" {
			return nil, apperrors.New(apperrors.KindValidation, "keyword must not be empty")
		}
		if len(kw) > MaxKeywordLength {
			return nil, apperrors.Newf(apperrors.KindValidation, "keyword %q exceeds %d characters", kw, MaxKeywordLength)
		}
		if seen[kw] {
			continue
		}
		seen[kw] = true
		normalized = append(normalized, kw)
	}
	if len(normalized) > MaxKeywordsPerPost {
		return nil, apperrors.Newf(apperrors.KindValidation, "a post may carry at most %d keywords", MaxKeywordsPerPost)
	}
	return normalized, nil
}

// Validate checks the record-level invariants. It is applied at the store
// boundary in both directions: before a write reaches the store and after a
// read leaves it.
func (p *Post) Validate() error {
	if p.ID == "" {
		return apperrors.New(apperrors.KindValidation, "post id must not be empty")
	}
	if strings.TrimSpace(p.Content) == "" {
		return apperrors.New(apperrors.KindValidation, "post content must not be empty")
	}
	if p.AuthorID == "" {
		return apperrors.New(apperrors.KindValidation, "post author id must not be empty")
	}
	if p.LikeCount != len(p.LikedBy) {
		return apperrors.Newf(apperrors.KindValidation,
			"like count %d does not match %d likers", p.LikeCount, len(p.LikedBy))
	}
	if _, err := NormalizeKeywords(p.Keywords); err != nil {
		return err
	}
	return nil
}

// HasKeyword reports whether the post carries the given normalized term.
func (p *Post) HasKeyword(term string) bool {
	for _, kw := range p.Keywords {
		if kw == term {
			return true
		}
	}
	return false
}

// LikedByUser reports whether userID is present in the like ledger.
func (p *Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Like adds userID to the like ledger and bumps the count. Liking a post the
// user already likes is a no-op; the like_count == |liked_by| invariant holds
// either way. Reports whether the ledger changed.
func (p *Post) Like(userID string) bool {
	if p.LikedByUser(userID) {
		return false
	}
	p.LikedBy = append(p.LikedBy, userID)
	p.LikeCount = len(p.LikedBy)
	return true
}

// Unlike removes userID from the like ledger and drops the count. Unliking a
// post the user does not like is a no-op. Reports whether the ledger changed.
func (p *Post) Unlike(userID string) bool {
	for i, id := range p.LikedBy {
		if id == userID {
			p.LikedBy = append(p.LikedBy[:i], p.LikedBy[i+1:]...)
			p.LikeCount = len(p.LikedBy)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the post. The like coordinator snapshots a
// post before an optimistic toggle so a failed commit can restore it.
func (p *Post) Clone() *Post {
	clone := *p
	if p.LikedBy != nil {
		clone.LikedBy = append([]string(nil), p.LikedBy...)
	}
	if p.Keywords != nil {
		clone.Keywords = append([]string(nil), p.Keywords...)
	}
	return &clone
}
