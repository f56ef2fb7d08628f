package app

import (
	"fmt"

	"mediabridge/internal/config"
	"mediabridge/internal/handlers"
	"mediabridge/internal/logger"
	"mediabridge/internal/media"
	"mediabridge/internal/middleware"
	"mediabridge/internal/models"
	"mediabridge/internal/repositories"
	"mediabridge/internal/routes"
	"mediabridge/internal/services"
	"mediabridge/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.Load()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if err := validateConfig(cfg); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(&models.Video{}); err != nil {
		logger.Fatal("Failed to migrate schema", "error", err)
	}

	ginRouter := SetupRouter(cfg)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full gin engine from configuration. Shared by
// the server entrypoint and the integration tests.
func SetupRouter(cfg *config.Config) *gin.Engine {
	mediaCfg := media.Config{
		CloudName:    cfg.Cloudinary.CloudName,
		APIKey:       cfg.Cloudinary.APIKey,
		APISecret:    cfg.Cloudinary.APISecret,
		UploadPrefix: cfg.Cloudinary.UploadPrefix,
	}
	uploader := media.NewClient(mediaCfg)

	videoRepo := repositories.NewVideoRepository()
	// The metadata writer opens one store client per request.
	stores := repositories.NewDSNOpener(cfg.Database.DSN)

	uploadService := services.NewUploadService(uploader, mediaCfg, videoRepo, stores,
		services.UploadServiceConfig{
			ImageFolder: cfg.Cloudinary.ImageFolder,
			VideoFolder: cfg.Cloudinary.VideoFolder,
		})

	base := handlers.NewBaseHandler(validator.New())
	uploadHandler := handlers.NewUploadHandler(base, uploadService, cfg.JWT.Secret)
	healthHandler := handlers.NewHealthHandler()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.MaxMultipartMemory = cfg.Upload.MaxSize

	routes.RegisterRoutes(ginRouter, uploadHandler, healthHandler)

	return ginRouter
}

func validateConfig(cfg *config.Config) error {
	v := validator.New()
	if err := v.Validate(cfg); err != nil {
		return err
	}
	if !(media.Config{CloudName: cfg.Cloudinary.CloudName, APIKey: cfg.Cloudinary.APIKey, APISecret: cfg.Cloudinary.APISecret}).Valid() {
		// Not fatal: the video path reports this per request, and the
		// image path surfaces it as an upload failure.
		logger.Warn("Cloudinary credentials are not fully configured")
	}
	return nil
}
