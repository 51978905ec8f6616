package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nimbusfeed/backend/internal/models"
)

var filterNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func filterPost(id string, ageDays, likes int, imageURL string, keywords ...string) *models.Post {
	likedBy := make([]string, likes)
	for i := range likedBy {
		likedBy[i] = "u" + string(rune('a'+i))
	}
	return &models.Post{
		ID:        id,
		Content:   "c",
		AuthorID:  "author-" + id,
		CreatedAt: filterNow.AddDate(0, 0, -ageDays),
		LikeCount: likes,
		LikedBy:   likedBy,
		ImageURL:  imageURL,
		Keywords:  keywords,
	}
}

func TestApplyFiltersZeroConfigIsIdentity(t *testing.T) {
	posts := []*models.Post{
		filterPost("p1", 1, 0, ""),
		filterPost("p2", 10, 3, "https://img", "go"),
	}
	got := ApplyFilters(posts, FilterConfig{}, filterNow)
	assert.Equal(t, posts, got)
}

func TestApplyFiltersImagePresence(t *testing.T) {
	posts := []*models.Post{
		filterPost("p1", 1, 0, ""),
		filterPost("p2", 1, 0, "https://img"),
	}
	got := ApplyFilters(posts, FilterConfig{HasImage: true}, filterNow)
	assert.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestApplyFiltersMinLikes(t *testing.T) {
	posts := []*models.Post{
		filterPost("p1", 1, 1, ""),
		filterPost("p2", 1, 5, ""),
	}
	got := ApplyFilters(posts, FilterConfig{MinLikes: 3}, filterNow)
	assert.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestApplyFiltersAgeWindowInclusive(t *testing.T) {
	posts := []*models.Post{
		filterPost("p1", 1, 0, ""),
		filterPost("p2", 3, 0, ""),
		filterPost("p3", 7, 0, ""),
		filterPost("p4", 8, 0, ""),
	}
	got := ApplyFilters(posts, FilterConfig{MinAgeDays: 3, MaxAgeDays: 7}, filterNow)
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p2", "p3"}, ids)
}

func TestApplyFiltersMinAgeAloneIsUnboundedAbove(t *testing.T) {
	posts := []*models.Post{
		filterPost("p1", 0, 0, ""),
		filterPost("p2", 2, 0, ""),
		filterPost("p3", 400, 0, ""),
	}
	got := ApplyFilters(posts, FilterConfig{MinAgeDays: 2}, filterNow)
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p2", "p3"}, ids)
}

func TestApplyFiltersCategories(t *testing.T) {
	posts := []*models.Post{
		filterPost("p1", 1, 0, "", "go"),
		filterPost("p2", 1, 0, "", "rust"),
		filterPost("p3", 1, 0, ""),
	}
	got := ApplyFilters(posts, FilterConfig{Categories: []string{" Go "}}, filterNow)
	assert.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	// An empty category set means no category filter.
	got = ApplyFilters(posts, FilterConfig{Categories: nil}, filterNow)
	assert.Len(t, got, 3)
}

func TestApplyFiltersConjunctionPreservesOrder(t *testing.T) {
	posts := []*models.Post{
		filterPost("p1", 2, 5, "https://img", "go"),
		filterPost("p2", 2, 5, "", "go"),
		filterPost("p3", 2, 1, "https://img", "go"),
		filterPost("p4", 2, 5, "https://img", "rust"),
		filterPost("p5", 9, 5, "https://img", "go"),
		filterPost("p6", 3, 6, "https://img", "go"),
	}
	cfg := FilterConfig{
		HasImage:   true,
		MinLikes:   2,
		MinAgeDays: 1,
		MaxAgeDays: 5,
		Categories: []string{"go"},
	}
	got := ApplyFilters(posts, cfg, filterNow)

	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
		// Every surviving element satisfies all four predicates.
		assert.NotEmpty(t, p.ImageURL)
		assert.GreaterOrEqual(t, p.LikeCount, 2)
		age := ageInDays(p.CreatedAt, filterNow)
		assert.GreaterOrEqual(t, age, 1)
		assert.LessOrEqual(t, age, 5)
		assert.True(t, p.HasKeyword("go"))
	}
	// Subset of the input in input order.
	assert.Equal(t, []string{"p1", "p6"}, ids)
}
