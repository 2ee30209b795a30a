package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appfounders/marketplace/internal/api"
	mongorepo "github.com/appfounders/marketplace/internal/infrastructure/db/mongo"
	redisstore "github.com/appfounders/marketplace/internal/infrastructure/db/redis"
	"github.com/appfounders/marketplace/internal/pkg/config"
	"github.com/appfounders/marketplace/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title        AppFounders Marketplace API
// @version      1.0
// @description  Marketplace for app developers and testers.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "appfounders-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "appfounders-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongorepo.EnsureIndexes(ctx,
		mongorepo.NewUserRepository(db),
		mongorepo.NewAppRepository(db),
		mongorepo.NewReviewRepository(db),
	); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	router := api.NewRouter(db, rdb, cfg)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	router.Dispatcher.Start(workerCtx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Bool("production", cfg.IsProduction()).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	cancelWorkers()
	router.Dispatcher.Wait()
	log.Info().Msg("server stopped")
}
