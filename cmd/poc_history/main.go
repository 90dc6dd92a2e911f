package main

import (
	"context"
	"flag"
	"log"
	"os"

	"cryptoPOC/config"
	"cryptoPOC/internal/adapters/logger"
	"cryptoPOC/internal/adapters/sqlite"
	"cryptoPOC/internal/report"
)

func main() {
	symbol := flag.String("symbol", "", "only list reports for this symbol (default: all)")
	limit := flag.Int("limit", 20, "maximum number of reports to list")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if cfg.DBPath == "" {
		log.Fatalf("FATAL: DB_PATH is not set; no report history to show")
	}
	if *limit <= 0 {
		log.Fatalf("FATAL: --limit must be positive")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to open report history: %v", err)
	}
	defer repo.Close()

	reports, err := repo.FindBySymbol(context.Background(), *symbol, *limit)
	if err != nil {
		appLogger.Error(context.Background(), err, "Failed to list reports")
		repo.Close()
		os.Exit(1)
	}

	if err := report.NewRenderer(os.Stdout, false).RenderHistory(reports); err != nil {
		log.Fatalf("FATAL: Failed to print reports: %v", err)
	}
}
