package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/nimbusfeed/backend/internal/feed"
	"github.com/nimbusfeed/backend/internal/handlers"
	"github.com/nimbusfeed/backend/internal/history"
	"github.com/nimbusfeed/backend/internal/identity"
	"github.com/nimbusfeed/backend/internal/middleware"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// Dependencies are the wired services the routes expose.
type Dependencies struct {
	PostService *feed.PostService
	Searcher    *feed.Searcher
	Likes       *feed.LikeCoordinator
	Histories   *history.Manager
	Identity    identity.Provider
	Logger      *zap.Logger
}

// SetupRoutes configures all application routes
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.GET("/health", handlers.HealthCheck)

	postHandler := handlers.NewPostHandler(deps.PostService)
	feedHandler := handlers.NewFeedHandler(deps.PostService)
	searchHandler := handlers.NewSearchHandler(deps.Searcher, deps.Histories, deps.Logger)
	likeHandler := handlers.NewLikeHandler(deps.PostService, deps.Likes)

	// Read endpoints work anonymously; a valid token enriches them.
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalFirebaseAuthMiddleware(deps.Identity))
	postHandler.RegisterPublicPostRoutes(public)
	feedHandler.RegisterFeedRoutes(public)
	searchHandler.RegisterPublicSearchRoutes(public)

	// Mutations require an authenticated actor.
	protected := e.Group("/api/v1")
	protected.Use(middleware.FirebaseAuthMiddleware(deps.Identity))
	postHandler.RegisterPostRoutes(protected)
	likeHandler.RegisterLikeRoutes(protected)
	searchHandler.RegisterHistoryRoutes(protected)

	deps.Logger.Info("routes configured")
}
