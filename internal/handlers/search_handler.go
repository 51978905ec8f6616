package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nimbusfeed/backend/internal/feed"
	"github.com/nimbusfeed/backend/internal/history"
	"github.com/nimbusfeed/backend/internal/identity"
	"github.com/nimbusfeed/backend/internal/middleware"
)

// SearchHandler handles keyword search and search history requests
type SearchHandler struct {
	searcher  *feed.Searcher
	histories *history.Manager
	log       *zap.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searcher *feed.Searcher, histories *history.Manager, log *zap.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, histories: histories, log: log}
}

// RegisterPublicSearchRoutes registers the search route
func (h *SearchHandler) RegisterPublicSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

// RegisterHistoryRoutes registers search history routes on the authenticated
// group
func (h *SearchHandler) RegisterHistoryRoutes(g *echo.Group) {
	g.GET("/search/history", h.GetHistory)
	g.DELETE("/search/history", h.ClearHistory)
	g.DELETE("/search/history/:term", h.RemoveHistoryTerm)
}

// Search returns posts matching the keyword. An authenticated search is
// recorded in the actor's search history.
func (h *SearchHandler) Search(c echo.Context) error {
	term := c.QueryParam("keyword")

	posts, err := h.searcher.Search(c.Request().Context(), term)
	if err != nil {
		if errors.Is(err, feed.ErrSuperseded) {
			return echo.NewHTTPError(http.StatusConflict, "search superseded by a newer query")
		}
		return httpError(err)
	}

	if actor := middleware.ActorFromContext(c); actor != nil {
		if hist, err := h.histories.ForUser(actor.ID); err == nil {
			if err := hist.Add(term); err != nil {
				h.log.Warn("failed to record search history",
					zap.String("user_id", actor.ID), zap.Error(err))
			}
		}
	}
	return c.JSON(http.StatusOK, posts)
}

// GetHistory returns the actor's recent search terms, most recent first
func (h *SearchHandler) GetHistory(c echo.Context) error {
	hist, err := h.historyFor(c)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, hist.Terms())
}

// RemoveHistoryTerm deletes one term from the actor's search history
func (h *SearchHandler) RemoveHistoryTerm(c echo.Context) error {
	hist, err := h.historyFor(c)
	if err != nil {
		return httpError(err)
	}
	if err := hist.Remove(c.Param("term")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearHistory empties the actor's search history
func (h *SearchHandler) ClearHistory(c echo.Context) error {
	hist, err := h.historyFor(c)
	if err != nil {
		return httpError(err)
	}
	if err := hist.Clear(); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SearchHandler) historyFor(c echo.Context) (*history.History, error) {
	actor := middleware.ActorFromContext(c)
	if err := identity.Require(actor); err != nil {
		return nil, err
	}
	return h.histories.ForUser(actor.ID)
}
