package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimbusfeed/backend/internal/feed"
	"github.com/nimbusfeed/backend/internal/middleware"
	"github.com/nimbusfeed/backend/internal/models"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *feed.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *feed.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes on the authenticated group
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.POST("/posts/image", h.UploadImage)
	g.DELETE("/posts/:id", h.DeletePost)
}

// RegisterPublicPostRoutes registers read-only post routes
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts)
}

// CreatePost creates a new post on behalf of the authenticated actor
func (h *PostHandler) CreatePost(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// UploadImage stores a post image and returns its download URL. The client
// uploads the image first and references the URL in the create request.
func (h *PostHandler) UploadImage(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read image file")
	}
	defer src.Close()

	url, err := h.postService.UploadImage(c.Request().Context(), actor,
		file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves the feed, or one author's posts when author_id is given
func (h *PostHandler) GetPosts(c echo.Context) error {
	ctx := c.Request().Context()

	var posts []*models.Post
	var err error
	if authorID := c.QueryParam("author_id"); authorID != "" {
		posts, err = h.postService.PostsByAuthor(ctx, authorID)
	} else {
		posts, err = h.postService.Feed(ctx)
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// DeletePost deletes the actor's own post. Cleanup of the attached image and
// the keyword index entry is best-effort; failures are reported as warnings,
// not as a failed deletion.
func (h *PostHandler) DeletePost(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	result, err := h.postService.Delete(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	var warnings []string
	if result.BlobCleanupErr != nil {
		warnings = append(warnings, result.BlobCleanupErr.Error())
	}
	if result.IndexCleanupErr != nil {
		warnings = append(warnings, result.IndexCleanupErr.Error())
	}
	if len(warnings) > 0 {
		return c.JSON(http.StatusOK, echo.Map{"deleted": true, "warnings": warnings})
	}
	return c.NoContent(http.StatusNoContent)
}
