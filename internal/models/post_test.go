package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

func validPost() *Post {
	return &Post{
		ID:         "1700000000000",
		Content:    "hello feed",
		AuthorID:   "user-1",
		AuthorName: "User One",
		CreatedAt:  time.Now(),
		LikeCount:  0,
		LikedBy:    []string{},
		Keywords:   []string{"go", "rust"},
	}
}

func TestNormalizeKeyword(t *testing.T) {
	assert.Equal(t, "go", NormalizeKeyword("  Go "))
	assert.Equal(t, "rust", NormalizeKeyword("RUST"))
	assert.Equal(t, "", NormalizeKeyword("   "))
}

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{name: "nil list", in: nil, want: nil},
		{name: "normalizes and dedupes", in: []string{" Go ", "go", "Rust"}, want: []string{"go", "rust"}},
		{name: "preserves first-seen order", in: []string{"b", "a", "B"}, want: []string{"b", "a"}},
		{name: "rejects empty keyword", in: []string{"go", "  "}, wantErr: true},
		{name: "rejects overlong keyword", in: []string{"abcdefghijklmnopqrstu"}, wantErr: true},
		{name: "rejects more than five", in: []string{"a", "b", "c", "d", "e", "f"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeKeywords(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeKeywordsSixthKeywordRejected(t *testing.T) {
	keywords := []string{"one", "two", "three", "four", "five"}

	_, err := NormalizeKeywords(append(append([]string(nil), keywords...), "six"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// The original five survive the rejected attempt untouched.
	got, err := NormalizeKeywords(keywords)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestPostValidate(t *testing.T) {
	require.NoError(t, validPost().Validate())

	p := validPost()
	p.Content = "   "
	assert.True(t, apperrors.IsKind(p.Validate(), apperrors.KindValidation))

	p = validPost()
	p.ID = ""
	assert.True(t, apperrors.IsKind(p.Validate(), apperrors.KindValidation))

	p = validPost()
	p.LikeCount = 3
	assert.True(t, apperrors.IsKind(p.Validate(), apperrors.KindValidation))
}

func TestLikeUnlikeKeepsLedgerInvariant(t *testing.T) {
	p := validPost()

	assert.True(t, p.Like("u1"))
	assert.Equal(t, 1, p.LikeCount)
	assert.Equal(t, []string{"u1"}, p.LikedBy)
	assert.Equal(t, p.LikeCount, len(p.LikedBy))

	// Liking twice is a no-op.
	assert.False(t, p.Like("u1"))
	assert.Equal(t, 1, p.LikeCount)

	assert.True(t, p.Unlike("u1"))
	assert.Equal(t, 0, p.LikeCount)
	assert.Empty(t, p.LikedBy)

	// Unliking a post the user does not like is a no-op.
	assert.False(t, p.Unlike("u1"))
	assert.Equal(t, 0, p.LikeCount)
}

func TestCloneIsIndependent(t *testing.T) {
	p := validPost()
	p.Like("u1")

	clone := p.Clone()
	p.Like("u2")
	p.Keywords = append(p.Keywords, "extra")

	assert.Equal(t, 1, clone.LikeCount)
	assert.Equal(t, []string{"u1"}, clone.LikedBy)
	assert.Equal(t, []string{"go", "rust"}, clone.Keywords)
}

func TestNewPostID(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123", NewPostID(at))
}
