package feed

import (
	"time"

	"github.com/nimbusfeed/backend/internal/models"
)

// FilterConfig is a compound feed filter. Zero values disable the
// corresponding predicate, so the zero config passes every post through
// unchanged.
type FilterConfig struct {
	// HasImage keeps only posts carrying an image when set.
	HasImage bool `json:"has_image"`
	// MinLikes keeps posts with at least this many likes.
	MinLikes int `json:"min_likes"`
	// MinAgeDays/MaxAgeDays keep posts whose age in whole days falls
	// within the inclusive window. Both zero means no age filter; a zero
	// MaxAgeDays leaves the window unbounded above.
	MinAgeDays int `json:"min_age_days"`
	MaxAgeDays int `json:"max_age_days"`
	// Categories keeps posts whose keywords intersect the set. Empty
	// means no category filter.
	Categories []string `json:"categories"`
}

func (c FilterConfig) ageFilterEnabled() bool {
	return c.MinAgeDays > 0 || c.MaxAgeDays > 0
}

// ApplyFilters evaluates the predicates as a logical AND, in a fixed order:
// image presence, like threshold, age window, category intersection. The
// output preserves the relative order of the input; filtering never reorders.
func ApplyFilters(posts []*models.Post, cfg FilterConfig, now time.Time) []*models.Post {
	categories := make(map[string]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		categories[models.NormalizeKeyword(c)] = true
	}

	out := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if cfg.HasImage && post.ImageURL == "" {
			continue
		}
		if post.LikeCount < cfg.MinLikes {
			continue
		}
		if cfg.ageFilterEnabled() {
			age := ageInDays(post.CreatedAt, now)
			if age < cfg.MinAgeDays {
				continue
			}
			if cfg.MaxAgeDays > 0 && age > cfg.MaxAgeDays {
				continue
			}
		}
		if len(categories) > 0 && !keywordsIntersect(post.Keywords, categories) {
			continue
		}
		out = append(out, post)
	}
	return out
}

func ageInDays(createdAt, now time.Time) int {
	return int(now.Sub(createdAt).Hours() / 24)
}

func keywordsIntersect(keywords []string, categories map[string]bool) bool {
	for _, kw := range keywords {
		if categories[kw] {
			return true
		}
	}
	return false
}
