package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nimbusfeed/backend/internal/blob"
	"github.com/nimbusfeed/backend/internal/feed"
	"github.com/nimbusfeed/backend/internal/history"
	"github.com/nimbusfeed/backend/internal/identity"
	"github.com/nimbusfeed/backend/internal/index"
	"github.com/nimbusfeed/backend/internal/router"
	"github.com/nimbusfeed/backend/internal/store"
	"github.com/nimbusfeed/backend/pkg/config"
	"github.com/nimbusfeed/backend/pkg/firebase"
	"github.com/nimbusfeed/backend/pkg/logger"
	"github.com/nimbusfeed/backend/validators"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Post records live in Mongo; the keyword index lives in Postgres.
	posts := store.NewPostStore(store.NewMongoStore(db.Mongo.Database(cfg.MongoDatabase)))
	keywordIndex, err := index.NewPostgres(db.Postgres)
	if err != nil {
		log.Fatalf("Failed to initialize keyword index: %v", err)
	}

	var blobs blob.Store
	if firebaseApp.Bucket != nil {
		blobs = blob.NewGCSStore(firebaseApp.Bucket, firebaseApp.BucketName)
	}

	postService := feed.NewPostService(posts, keywordIndex, blobs, zlog)
	searcher := feed.NewSearcher(posts, keywordIndex, zlog)
	likes := feed.NewLikeCoordinator(posts, zlog)
	histories := history.NewManager(cfg.HistoryDir)

	if err := postService.RebuildIndex(ctx); err != nil {
		zlog.Warn("keyword index rebuild at startup failed", zap.Error(err))
	}

	e := echo.New()
	router.SetupMiddleware(e)
	router.SetupRoutes(e, router.Dependencies{
		PostService: postService,
		Searcher:    searcher,
		Likes:       likes,
		Histories:   histories,
		Identity:    identity.NewFirebaseProvider(firebaseApp.AuthClient),
		Logger:      zlog,
	})

	e.Validator = validators.NewValidator()

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
