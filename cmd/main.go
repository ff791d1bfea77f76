package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/api"
	"github.com/hiphil2000/IB.React/internal/controller"
	"github.com/hiphil2000/IB.React/internal/migrations"
	"github.com/hiphil2000/IB.React/internal/service"
	"github.com/hiphil2000/IB.React/internal/storage/postgres"
	storageredis "github.com/hiphil2000/IB.React/internal/storage/redis"
	"github.com/hiphil2000/IB.React/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger); err != nil {
		logger.Fatal(zap.Error(err))
	}

	redisClient, redisCleanup, err := util.NewRedisClient(ctx, logger, util.NewRedisConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	storage := postgres.NewStorage(db)
	cleanupFuncs := []func(){dbCleanup, redisCleanup}

	jwtService, err := service.NewJwtService(util.NewJwtConfig(), storage, storage, logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	loginLimiter := storageredis.NewLoginLimiter(redisClient, util.NewRateLimiterConfig())
	webhookService := service.NewWebhookService(logger, util.GetLoginWebhookURL())
	authService := service.NewAuthService(jwtService, storage, webhookService, logger)

	controller := controller.NewController(logger, jwtService, authService, storage, storage)

	apiServer := api.NewAPI(controller, jwtService, loginLimiter, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}
