package index

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nimbusfeed/backend/internal/apperrors"
	"github.com/nimbusfeed/backend/internal/models"
)

// KeywordEntry is one keyword -> post id pair in the relational index table.
type KeywordEntry struct {
	Keyword string `gorm:"primaryKey;size:20"`
	PostID  string `gorm:"primaryKey;size:32"`
}

// Postgres is an Index persisted in PostgreSQL. Post records live in the
// document store; the derived keyword mapping lives relationally, the same
// split the rest of the backend uses for per-post derived data.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres creates the index and migrates its table
func NewPostgres(db *gorm.DB) (*Postgres, error) {
	if err := db.AutoMigrate(&KeywordEntry{}); err != nil {
		return nil, apperrors.Wrap(apperrors.KindRemote, "keyword index migration failed", err)
	}
	return &Postgres{db: db}, nil
}

// Add registers the post id under each of the post's keywords
func (p *Postgres) Add(ctx context.Context, post *models.Post) error {
	if len(post.Keywords) == 0 {
		return nil
	}
	entries := entriesFor(post)
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entries).Error
	if err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "keyword index insert failed", err)
	}
	return nil
}

// Remove drops the post id from each of the post's keywords
func (p *Postgres) Remove(ctx context.Context, post *models.Post) error {
	err := p.db.WithContext(ctx).
		Where("post_id = ?", post.ID).
		Delete(&KeywordEntry{}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "keyword index delete failed", err)
	}
	return nil
}

// PostIDs returns the ids of posts carrying the term, sorted for determinism
func (p *Postgres) PostIDs(ctx context.Context, term string) ([]string, error) {
	term = models.NormalizeKeyword(term)
	var ids []string
	err := p.db.WithContext(ctx).
		Model(&KeywordEntry{}).
		Where("keyword = ?", term).
		Order("post_id").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindRemote, "keyword index query failed", err)
	}
	return ids, nil
}

// Rebuild replaces the whole index with entries derived from posts
func (p *Postgres) Rebuild(ctx context.Context, posts []*models.Post) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&KeywordEntry{}).Error; err != nil {
			return err
		}
		var entries []KeywordEntry
		for _, post := range posts {
			entries = append(entries, entriesFor(post)...)
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(&entries, 500).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "keyword index rebuild failed", err)
	}
	return nil
}

func entriesFor(post *models.Post) []KeywordEntry {
	entries := make([]KeywordEntry, 0, len(post.Keywords))
	for _, kw := range post.Keywords {
		entries = append(entries, KeywordEntry{Keyword: kw, PostID: post.ID})
	}
	return entries
}
