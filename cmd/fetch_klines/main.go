package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"cryptoPOC/config"
	"cryptoPOC/internal/adapters/binanceclient"
	"cryptoPOC/internal/adapters/logger"
	"cryptoPOC/internal/fetcher"
	"cryptoPOC/internal/ports"
	"cryptoPOC/internal/timeframe"
	"cryptoPOC/internal/utils"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	symbol := flag.String("symbol", cfg.Symbol, "trading pair symbol")
	interval := flag.String("interval", cfg.Interval, "kline interval")
	start := flag.String("start", "", "start date YYYY-MM-DD (required)")
	end := flag.String("end", "", "end date YYYY-MM-DD, inclusive (required)")
	out := flag.String("out", "", "output CSV path (default data/<symbol>_<interval>_<start>_to_<end>.csv)")
	flag.Parse()

	if *start == "" || *end == "" {
		flag.Usage()
		os.Exit(ports.ExitFailure)
	}

	// 2. Initialize Logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	ctx := context.Background()

	window, err := timeframe.NewWindow(*start, *end)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:         cfg.APIKey,
		SecretKey:      cfg.SecretKey,
		UseTestnet:     cfg.IsTestnet,
		BaseURL:        cfg.BaseURL,
		RequestTimeout: cfg.RequestTimeout,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
		Logger:         appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	f, err := fetcher.New(fetcher.Config{Provider: binanceClient, Logger: appLogger, PageSize: cfg.PageSize})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize fetcher: %v", err)
	}

	klines, err := f.FetchSeries(ctx, *symbol, *interval, window.StartMs, window.EndMs)
	if err != nil {
		appLogger.Error(ctx, err, "Error fetching klines")
		os.Exit(ports.ExitCode(err))
	}
	if len(klines) == 0 {
		appLogger.Warn(ctx, "No data found for the requested range", ports.Fields{"symbol": *symbol, "interval": *interval})
		return
	}

	filename := *out
	if filename == "" {
		filename = fmt.Sprintf("data/%s_%s_%s_to_%s.csv", *symbol, *interval, *start, *end)
	}
	if err := utils.WriteKlinesToCSV(klines, filename); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		os.Exit(ports.ExitFailure)
	}
	appLogger.Info(ctx, "Saved to", ports.Fields{"filename": filename, "count": len(klines)})
}
