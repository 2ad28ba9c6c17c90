package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"aquaguard/internal/config"
	"aquaguard/pkg/database"
	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	seed := flag.Bool("seed", false, "Load sample monitoring data after an up migration")
	flag.Parse()

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
	logger := logging.NewStructuredLogger("aquaguard-migrate", "1.0.0", logLevel)

	// Metrics are not exported from a one-shot command.
	collector := metrics.NewCollector("aquaguard", prometheus.NewRegistry())

	db, err := database.Open(cfg.DatabaseConnConfig(), logger, collector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, *direction, *seed); err != nil {
		logger.Error(ctx, "[MIGRATE_ERROR] Migration failed", logging.Fields{
			"direction": *direction,
			"seed":      *seed,
		}, err)
		db.Close()
		os.Exit(1)
	}

	fmt.Println("Migration completed successfully")
}
