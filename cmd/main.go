package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/danurwenda/identity-service/config"
	"github.com/danurwenda/identity-service/db"
	"github.com/danurwenda/identity-service/internal/identity/handler"
	repo "github.com/danurwenda/identity-service/internal/identity/repository/postgres"
	"github.com/danurwenda/identity-service/internal/identity/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.Env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := db.Migrate(cfg.DBURL); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	store := repo.NewRepository(pool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.AccessExpiryMin)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)

	authService := service.NewAuthService(store, store, store, store, tokenService, hasher, cfg, logger)
	sessionService := service.NewSessionService(store, store, store, logger)
	maintenanceService := service.NewMaintenanceService(store, store, logger)
	reportingService := service.NewReportingService(store)

	go maintenanceService.Run(ctx,
		time.Duration(cfg.SweepIntervalMin)*time.Minute, cfg.RetentionDays)

	authHandler := handler.NewAuthHandler(authService, sessionService,
		maintenanceService, reportingService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
