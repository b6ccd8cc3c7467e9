package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appmetrics "swapMarket/app/echo-server/metrics"
	"swapMarket/app/echo-server/router"
	"swapMarket/business/category"
	"swapMarket/business/feed"
	"swapMarket/internal/middleware"
	natsRepo "swapMarket/internal/repository/nats"
	psqlRepo "swapMarket/internal/repository/postgres"
	redisRepo "swapMarket/internal/repository/redis"
	"swapMarket/internal/rest"
	"swapMarket/pkg/config"
	"swapMarket/pkg/database"
	redisClient "swapMarket/pkg/database/redis"
	"swapMarket/pkg/logger"
	"swapMarket/pkg/metrics"
	"swapMarket/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Swap Market feed", "version", cfg.App.Version)

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	metrics.Init()
	appmetrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis only backs the ranking cache and optional session checks; the feed works without it.
	var rankingCache feed.RankingCache
	var tokenRepo *redisRepo.TokenRepository
	rdb, err := redisClient.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, ranking context cache disabled", "error", err)
	} else {
		rankingCache = redisRepo.NewRankingCache(rdb)
		tokenRepo = redisRepo.NewTokenRepository(rdb)
		defer func() {
			if err := redisClient.CloseRedisClient(rdb); err != nil {
				logger.Error("Failed to close redis", err)
			}
		}()
	}

	var publisher feed.EventPublisher
	if cfg.NATS.URL != "" {
		natsPublisher, err := natsRepo.NewPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warn("NATS unavailable, swipe events will not be published", "error", err)
		} else {
			publisher = natsPublisher
			defer natsPublisher.Close()
		}
	}

	// Init repo
	listingRepo := psqlRepo.NewListingRepository(db)
	swipeRepo := psqlRepo.NewSwipeRepository(db)
	featuredRepo := psqlRepo.NewFeaturedRepository(db)
	subscriptionRepo := psqlRepo.NewSubscriptionRepository(db)
	viewerRepo := psqlRepo.NewViewerRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)

	// Init service
	feedCfg := feed.DefaultConfig()
	feedCfg.CandidateLimit = cfg.Feed.CandidateLimit
	feedCfg.FallbackLimit = cfg.Feed.FallbackLimit
	feedCfg.PriceCeiling = cfg.Feed.PriceCeiling
	feedCfg.ContextTTL = cfg.Feed.ContextTTL
	feedCfg.BoostFetchTimeout = cfg.Feed.BoostFetchTimeout
	feedCfg.FetchRetries = cfg.Feed.FetchRetries
	feedCfg.SessionIdleTTL = cfg.Feed.SessionIdleTTL
	feedCfg.MaxInstancesPerViewer = cfg.Feed.MaxInstances

	contextLoader := feed.NewContextLoader(featuredRepo, subscriptionRepo, viewerRepo, rankingCache, feedCfg)
	feedService := feed.NewFeedService(listingRepo, swipeRepo, contextLoader, publisher, feedCfg)
	categoryService := category.NewCategoryService(categoryRepo)

	// Init handler
	feedHandler := rest.NewFeedHandler(feedService, cfg.Server.RequestTimeout)
	categoryHandler := rest.NewCategoryHandler(categoryService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(appmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.TraceIDHeader},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	if cfg.JWT.RedisSessions && tokenRepo != nil {
		authRequired = middleware.AuthMiddlewareWithRedis(tokenRepo)
	}
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupFeedRoutes(api, feedHandler, authRequired, adminOnly)
	router.SetupCategoryRoutes(api, categoryHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server stopped")
}
