package feed

import (
	"sort"

	"github.com/nimbusfeed/backend/internal/models"
)

// Ranking defaults.
const (
	DefaultTrendingSize        = 3
	DefaultPopularKeywordCount = 5
)

// Chronological returns the posts sorted by creation time, newest first.
// The input is never mutated.
func Chronological(posts []*models.Post) []*models.Post {
	out := append([]*models.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ByPopularity returns the posts sorted by like count descending, ties broken
// by creation time descending. The input is never mutated.
func ByPopularity(posts []*models.Post) []*models.Post {
	out := append([]*models.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LikeCount != out[j].LikeCount {
			return out[i].LikeCount > out[j].LikeCount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Trending returns the n most liked posts. n <= 0 falls back to the default
// trending size.
func Trending(posts []*models.Post, n int) []*models.Post {
	if n <= 0 {
		n = DefaultTrendingSize
	}
	ranked := ByPopularity(posts)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// KeywordCount is a keyword with its occurrence count across posts.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// PopularKeywords counts keyword occurrences across all posts and returns the
// n most frequent. Equal counts are ordered lexicographically so the result
// is deterministic. n <= 0 falls back to the default count.
func PopularKeywords(posts []*models.Post, n int) []KeywordCount {
	if n <= 0 {
		n = DefaultPopularKeywordCount
	}
	counts := make(map[string]int)
	for _, post := range posts {
		for _, kw := range post.Keywords {
			counts[kw]++
		}
	}
	ranked := make([]KeywordCount, 0, len(counts))
	for kw, count := range counts {
		ranked = append(ranked, KeywordCount{Keyword: kw, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// FeedStats are aggregate feed statistics, recomputed on demand.
type FeedStats struct {
	TotalPosts      int `json:"total_posts"`
	DistinctAuthors int `json:"distinct_authors"`
	TotalLikes      int `json:"total_likes"`
}

// Stats reduces the posts to their aggregate statistics.
func Stats(posts []*models.Post) FeedStats {
	authors := make(map[string]bool)
	stats := FeedStats{TotalPosts: len(posts)}
	for _, post := range posts {
		authors[post.AuthorID] = true
		stats.TotalLikes += post.LikeCount
	}
	stats.DistinctAuthors = len(authors)
	return stats
}
