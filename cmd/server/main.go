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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/storyhub/internal/config"
	"github.com/storyhub/internal/handler"
	"github.com/storyhub/internal/middleware"
	"github.com/storyhub/internal/models"
	"github.com/storyhub/internal/repository"
	"github.com/storyhub/internal/service"
	"github.com/storyhub/internal/upload"
	"github.com/storyhub/internal/worker"
	"github.com/storyhub/internal/ws"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := middleware.InitLogger(cfg.Log.Dir); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	// Auto migrate database
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	savedRepo := repository.NewSavedStoryRepository(db)
	readRepo := repository.NewReadStoryRepository(db)

	if err := categoryRepo.Seed(); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	// Initialize upload savers (per-kind size caps)
	storyImageSaver, err := upload.NewSaver(cfg.Upload.Dir, cfg.Upload.MaxStoryImageMB)
	if err != nil {
		log.Fatalf("Failed to initialize upload directory: %v", err)
	}
	profileImageSaver, err := upload.NewSaver(cfg.Upload.Dir, cfg.Upload.MaxProfileImageMB)
	if err != nil {
		log.Fatalf("Failed to initialize upload directory: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	feedCache := service.NewFeedCache(rdb)
	userService := service.NewUserService(userRepo, authService, profileImageSaver, feedCache)
	storyService := service.NewStoryService(
		storyRepo,
		categoryRepo,
		savedRepo,
		readRepo,
		userRepo,
		storyImageSaver,
		feedCache,
	)

	// Live feed fanout: hub + redis relay
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	relay := worker.NewFeedRelay(rdb, hub)
	go relay.Start(ctx)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	storyHandler := handler.NewStoryHandler(storyService)
	feedHandler := handler.NewFeedHandler(hub)

	// Create Gin router
	router := gin.Default()
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(corsMiddleware())

	// Uploaded images are served straight from the content directory
	router.Static("/uploads", cfg.Upload.Dir)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    Version,
			"commit":     Commit,
			"build_time": BuildTime,
			"time":       time.Now().Unix(),
		})
	})

	// API routes
	api := router.Group("/api/auth")
	{
		authMiddleware := middleware.AuthMiddleware(authService)
		authHandler.RegisterRoutes(api, authMiddleware)
		userHandler.RegisterRoutes(api, authMiddleware)
		storyHandler.RegisterRoutes(api, authMiddleware)
		feedHandler.RegisterRoutes(api, authMiddleware)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop hub and relay
	cancel()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Server exited properly")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	// TranslateError maps unique-constraint violations to
	// gorm.ErrDuplicatedKey, which the save-story path depends on
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Story{},
		&models.SavedStory{},
		&models.ReadStory{},
	)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
