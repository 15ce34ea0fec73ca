package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hndang/servihub-backend/config"
	"github.com/hndang/servihub-backend/internal/app/controller"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/internal/app/service"
	"github.com/hndang/servihub-backend/internal/db"
	"github.com/hndang/servihub-backend/internal/middleware"
	"github.com/hndang/servihub-backend/internal/router"
	"github.com/hndang/servihub-backend/internal/scheduler"
	"github.com/hndang/servihub-backend/internal/storage"
	"github.com/hndang/servihub-backend/pkg/logger"
	"github.com/hndang/servihub-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting ServiHub Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if cfg.JWT.Secret == config.InsecureDefaultSecret {
		logger.Warn("Running with the default JWT secret; set JWT_SECRET in production", nil)
	}

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Bootstrap admin account (optional)
	if err := db.SeedDefaultAdmin(os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		logger.Warn("Failed to seed bootstrap admin", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Optional Redis-backed view counters for the trending listing
	var views service.ViewCounter
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, trending falls back to recent services", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
			views = redis.NewViewCounter(redis.GetClient())
		}
	}

	// Image storage backend
	var imageStorage storage.ImageStorage
	var localStorage *storage.LocalStorage
	switch cfg.Upload.Driver {
	case "s3":
		imageStorage = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	default:
		localStorage, err = storage.NewLocalStorage(cfg.Upload.LocalDir, cfg.Upload.BaseURL)
		if err != nil {
			logger.Fatal("Failed to initialize upload storage", err)
		}
		imageStorage = localStorage
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	adminRepo := repository.NewAdminRepository(db.GetDB())
	serviceRepo := repository.NewServiceRepository(db.GetDB())
	commentRepo := repository.NewCommentRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, adminRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	catalogService := service.NewCatalogService(serviceRepo, db.GetDB(), views)
	commentService := service.NewCommentService(commentRepo, serviceRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, serviceRepo)
	userService := service.NewUserService(userRepo, db.GetDB())
	adminService := service.NewAdminService(serviceRepo, db.GetDB())

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.AccessTokenExpiry)
	serviceController := controller.NewServiceController(catalogService, imageStorage, cfg.Upload.MaxSizeByte)
	commentController := controller.NewCommentController(commentService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	userController := controller.NewUserController(userService)
	adminController := controller.NewAdminController(authService, adminService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		serviceController,
		commentController,
		favoriteController,
		userController,
		adminController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Orphaned upload cleanup only applies to the local driver
	var cleanup *scheduler.UploadCleanupScheduler
	if localStorage != nil {
		cleanup = scheduler.NewUploadCleanupScheduler(db.GetDB(), localStorage)
		if err := cleanup.Start(); err != nil {
			logger.Warn("Upload cleanup scheduler not running", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	if cleanup != nil {
		cleanup.Stop()
	}
	logger.Info("Server stopped successfully")
}
