package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/config"
	"github.com/stemsi/cutoff-backend/internal/database"
	"github.com/stemsi/cutoff-backend/internal/handler"
	"github.com/stemsi/cutoff-backend/internal/logger"
	"github.com/stemsi/cutoff-backend/internal/metrics"
	"github.com/stemsi/cutoff-backend/internal/repository"
	"github.com/stemsi/cutoff-backend/internal/router"
	"github.com/stemsi/cutoff-backend/internal/service"
	"github.com/stemsi/cutoff-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("driver", cfg.DBDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Cutoff Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Initialize Metrics ────────────────────────────────────────────
	m := metrics.New()

	// ─── Open Data Store ───────────────────────────────────────────────
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := database.Open(connectCtx, cfg, log, m)
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open data store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Data store close error")
		}
	}()

	// ─── Initialize Repositories ───────────────────────────────────────
	stateRepo := repository.NewStateRepository(store)
	collegeRepo := repository.NewCollegeRepository(store)
	cutoffRepo := repository.NewCutoffRepository(store)

	// ─── Initialize Services ──────────────────────────────────────────
	queryService := service.NewQueryService(stateRepo, collegeRepo, cutoffRepo, cfg.QueryTimeout, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		State:   handler.NewStateHandler(queryService, log),
		College: handler.NewCollegeHandler(queryService, log),
		Cutoff:  handler.NewCutoffHandler(queryService, log),
		System:  handler.NewSystemHandler(store, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, m, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
