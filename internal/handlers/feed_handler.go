package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nimbusfeed/backend/internal/feed"
)

// FeedHandler handles feed browsing, trending and statistics requests
type FeedHandler struct {
	postService *feed.PostService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postService *feed.PostService) *FeedHandler {
	return &FeedHandler{postService: postService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/trending", h.GetTrending)
	g.GET("/feed/keywords", h.GetPopularKeywords)
	g.GET("/feed/stats", h.GetStats)
}

// GetFeed returns the feed with the requested filters and ordering applied.
// Filters combine as a logical AND and never reorder; ordering is
// chronological unless sort=popular.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.postService.Feed(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	cfg := filterConfigFromQuery(c)
	posts = feed.ApplyFilters(posts, cfg, time.Now())

	if c.QueryParam("sort") == "popular" {
		posts = feed.ByPopularity(posts)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetTrending returns the top posts by like count
func (h *FeedHandler) GetTrending(c echo.Context) error {
	posts, err := h.postService.Feed(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	n, _ := strconv.Atoi(c.QueryParam("n"))
	return c.JSON(http.StatusOK, feed.Trending(posts, n))
}

// GetPopularKeywords returns the most used keywords across all posts
func (h *FeedHandler) GetPopularKeywords(c echo.Context) error {
	posts, err := h.postService.Feed(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	n, _ := strconv.Atoi(c.QueryParam("n"))
	return c.JSON(http.StatusOK, feed.PopularKeywords(posts, n))
}

// GetStats returns aggregate feed statistics
func (h *FeedHandler) GetStats(c echo.Context) error {
	posts, err := h.postService.Feed(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, feed.Stats(posts))
}

func filterConfigFromQuery(c echo.Context) feed.FilterConfig {
	cfg := feed.FilterConfig{}
	cfg.HasImage, _ = strconv.ParseBool(c.QueryParam("has_image"))
	cfg.MinLikes, _ = strconv.Atoi(c.QueryParam("min_likes"))
	cfg.MinAgeDays, _ = strconv.Atoi(c.QueryParam("min_age_days"))
	cfg.MaxAgeDays, _ = strconv.Atoi(c.QueryParam("max_age_days"))
	if raw := c.QueryParam("categories"); raw != "" {
		cfg.Categories = strings.Split(raw, ",")
	}
	return cfg
}
