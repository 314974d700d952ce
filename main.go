package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/camden-git/fyyur/config"
	"github.com/camden-git/fyyur/database"
	"github.com/camden-git/fyyur/handlers"
	"github.com/camden-git/fyyur/logging"
	"github.com/camden-git/fyyur/repository"
	"github.com/camden-git/fyyur/services"
	"github.com/camden-git/fyyur/web"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.LoadConfig()

	logger, closer, err := logging.Setup(cfg.Debug, cfg.LogLevel, cfg.ErrorLogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}
	defer closer.Close()
	if envErr != nil {
		logger.Info().Err(envErr).Msg("no .env file found or error loading it")
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal().Err(err).Str("dir", dir).Msg("failed to create database directory")
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath, logger, cfg.Debug)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	if err := database.AutoMigrateModels(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get database handle")
	}
	defer sqlDB.Close()

	if cfg.SeedDemoData {
		seeder := &services.Seeder{
			Venues:  repository.NewGormVenueRepository(db),
			Artists: repository.NewGormArtistRepository(db),
			Shows:   repository.NewGormShowRepository(db),
			Log:     logger,
		}
		if err := seeder.Seed(context.Background(), time.Now()); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	views, err := handlers.NewViews(web.Files, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load templates")
	}
	static, err := fs.Sub(web.Files, "static")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open static assets")
	}

	router, err := handlers.NewRouter(handlers.RouterConfig{
		DB:             db,
		Views:          views,
		Static:         static,
		Log:            logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build router")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Str("database", cfg.DatabasePath).Bool("debug", cfg.Debug).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
