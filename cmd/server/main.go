// Package main is the entry point for the advisor service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/advisor/internal/clientdata"
	"github.com/aristath/advisor/internal/clients/exchangerate"
	"github.com/aristath/advisor/internal/clients/firecrawl"
	"github.com/aristath/advisor/internal/clients/gemini"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/database"
	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/internal/modules/advisor"
	advisorhandlers "github.com/aristath/advisor/internal/modules/advisor/handlers"
	"github.com/aristath/advisor/internal/scheduler"
	"github.com/aristath/advisor/internal/server"
	"github.com/aristath/advisor/pkg/logger"
)

// main wires the advisor service together:
//  1. Loads configuration from environment variables (.env supported)
//  2. Opens the client-data cache database and the optional history database
//  3. Builds the reasoning and research collaborators (real or simulated)
//  4. Assembles the advice pipeline and comparison service
//  5. Schedules the daily cache cleanup job
//  6. Starts the HTTP server and waits for a shutdown signal
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting advisor service")

	// Client-data cache database stores upstream API responses with TTLs so
	// repeated requests for the same profile or location skip the network.
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "client_data.db"),
		Profile: database.ProfileCache,
		Name:    "client_data",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open client-data database")
	}
	defer cacheDB.Close()

	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate client-data database")
	}

	cacheRepo := clientdata.NewRepository(cacheDB.Conn())

	// History backend: in-memory by default, SQLite when records should
	// survive restarts.
	var history domain.HistoryStore
	switch cfg.HistoryBackend {
	case config.HistoryBackendSQLite:
		historyDB, err := database.New(database.Config{
			Path:    filepath.Join(cfg.DataDir, "history.db"),
			Profile: database.ProfileStandard,
			Name:    "history",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open history database")
		}
		defer historyDB.Close()

		if err := historyDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate history database")
		}
		history = advisor.NewSQLiteHistory(historyDB.Conn())
		log.Info().Msg("Using SQLite history backend")
	default:
		history = advisor.NewMemoryHistory()
		log.Info().Msg("Using in-memory history backend")
	}

	upstreamTimeout := time.Duration(cfg.UpstreamTimeout) * time.Second

	// Collaborators fall back to deterministic simulators when API keys are
	// missing, so the service works out of the box for local development.
	var reasoning domain.ReasoningClient
	if cfg.SimulateReasoning() {
		reasoning = gemini.NewSimulator()
		log.Info().Msg("Reasoning collaborator running in simulated mode")
	} else {
		reasoning = gemini.NewClient(gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: upstreamTimeout,
		}, cacheRepo, log)
	}

	var research domain.ResearchClient
	if cfg.SimulateResearch() {
		research = firecrawl.NewSimulator()
		log.Info().Msg("Research collaborator running in simulated mode")
	} else {
		research = firecrawl.NewClient(firecrawl.Config{
			APIKey:  cfg.FirecrawlAPIKey,
			Timeout: upstreamTimeout,
		}, cacheRepo, log)
	}

	validator := advisor.NewValidator()
	calculator := advisor.NewCalculator(cfg.DiscountRate)
	pipeline := advisor.NewPipeline(validator, calculator, reasoning, research, history, upstreamTimeout, log)

	rates := exchangerate.NewClient(cacheRepo, log)
	compare := advisor.NewCompareService(pipeline, validator, rates, cfg.CompareWorkers, log)

	handlers := advisorhandlers.NewHandler(pipeline, compare, history, log)

	// Daily cleanup of expired cache rows keeps the client-data database small.
	sched := scheduler.New(log)
	if err := sched.AddJob("@daily", clientdata.NewCleanupJob(cacheRepo, log)); err != nil {
		log.Error().Err(err).Msg("Failed to schedule cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:      log,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
		Handlers: handlers,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
