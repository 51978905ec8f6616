// Package index maintains the derived keyword -> post id mapping. The index
// is never authoritative; it can be rebuilt from the post store at any time
// without loss.
package index

import (
	"context"

	"github.com/nimbusfeed/backend/internal/models"
)

// Index is the contract of an incrementally maintained keyword index.
type Index interface {
	// Add registers the post id under each of the post's keywords.
	Add(ctx context.Context, post *models.Post) error
	// Remove drops the post id from each of the post's keywords.
	Remove(ctx context.Context, post *models.Post) error
	// PostIDs returns the ids of posts carrying the term. The term is
	// normalized the same way post keywords are.
	PostIDs(ctx context.Context, term string) ([]string, error)
	// Rebuild replaces the whole index with entries derived from posts.
	Rebuild(ctx context.Context, posts []*models.Post) error
}
