package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aquaguard/internal/config"
	"aquaguard/internal/handlers"
	"aquaguard/internal/inference"
	"aquaguard/internal/repository"
	"aquaguard/internal/services"
	"aquaguard/pkg/database"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel, _ := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.NewStructuredLogger("aquaguard-api", version, logLevel)

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting AquaGuard API server", logging.Fields{
		"version":     version,
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
		"model_url":   cfg.Model.URL,
	})

	metricsCollector := metrics.NewCollector("aquaguard", nil)

	db, err := database.Open(cfg.DatabaseConnConfig(), logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	repo := repository.NewMonitoringRepository(db, logger, metricsCollector)

	// Predictions stay disabled, and fail as internal errors, without a model URL.
	var model services.Model
	if cfg.Model.URL != "" {
		model = inference.NewClient(cfg.Model.URL, cfg.Model.Timeout, logger, metricsCollector)
	} else {
		logger.Warn(ctx, "[STARTUP] MODEL_URL not set, predictions are disabled", logging.Fields{})
	}

	apiHandler := handlers.NewAPIHandler(
		services.NewGroundwaterService(repo, logger, metricsCollector),
		services.NewSearchService(repo, logger, metricsCollector),
		services.NewMonitoringService(repo, logger, metricsCollector),
		services.NewPredictionService(model, nil, logger, metricsCollector),
		clockwork.NewRealClock(),
		logger,
		metricsCollector,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handlers.NewRouter(apiHandler, promhttp.Handler()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
