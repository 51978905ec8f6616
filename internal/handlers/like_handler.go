package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimbusfeed/backend/internal/feed"
	"github.com/nimbusfeed/backend/internal/middleware"
)

// LikeHandler handles like toggles
type LikeHandler struct {
	postService *feed.PostService
	coordinator *feed.LikeCoordinator
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postService *feed.PostService, coordinator *feed.LikeCoordinator) *LikeHandler {
	return &LikeHandler{postService: postService, coordinator: coordinator}
}

// RegisterLikeRoutes registers like-related routes on the authenticated group
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike likes the post on behalf of the actor, or unlikes it when the
// actor already likes it, and returns the post with its reconciled ledger.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	post, err := h.postService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	if err := h.coordinator.Toggle(c.Request().Context(), actor, post); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}
