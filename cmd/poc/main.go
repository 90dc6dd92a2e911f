package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cryptoPOC/config"
	"cryptoPOC/internal/adapters/binanceclient"
	"cryptoPOC/internal/adapters/logger"
	"cryptoPOC/internal/adapters/noop"
	"cryptoPOC/internal/adapters/sqlite"
	"cryptoPOC/internal/app"
	"cryptoPOC/internal/ports"
	"cryptoPOC/internal/report"
)

// options holds the parsed command line.
type options struct {
	symbol   string
	interval string
	start    string
	end      string
	prevPOC  float64
	logLevel logger.LogLevel
	bins     int
	csvPath  string
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("poc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Calculates the Point of Control (POC) for a Binance symbol over a date range.")
		fmt.Fprintln(stderr, "\nUsage: poc --start YYYY-MM-DD --end YYYY-MM-DD --prev-poc PRICE [flags]")
		fs.PrintDefaults()
	}

	opts := &options{}
	var logLevel string
	fs.StringVar(&opts.symbol, "symbol", cfg.Symbol, "trading pair symbol")
	fs.StringVar(&opts.start, "start", "", "start date YYYY-MM-DD (required)")
	fs.StringVar(&opts.end, "end", "", "end date YYYY-MM-DD, inclusive (required)")
	fs.StringVar(&opts.interval, "interval", cfg.Interval, "kline interval, e.g. 1m, 15m, 1h, 4h, 1d")
	fs.Float64Var(&opts.prevPOC, "prev-poc", 0, "previous POC to compare against (required)")
	fs.StringVar(&logLevel, "log", cfg.LogLevel.String(), "log level: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	fs.IntVar(&opts.bins, "bins", cfg.BinCount, "number of volume profile bins")
	fs.StringVar(&opts.csvPath, "csv", "", "optional path to export the fetched klines as CSV")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var missing []string
	for _, name := range []string{"start", "end", "prev-poc"} {
		if !set[name] {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required flags: %s", ports.ErrConfigurationError, strings.Join(missing, ", "))
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments: %s", ports.ErrConfigurationError, strings.Join(fs.Args(), " "))
	}

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	opts.logLevel = level

	if opts.bins <= 0 {
		return nil, fmt.Errorf("%w: --bins must be positive", ports.ErrConfigurationError)
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
		return ports.ExitFailure
	}

	opts, err := parseFlags(args, cfg, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ports.ExitOK
		}
		log.Printf("FATAL: %v", err)
		return ports.ExitFailure
	}
	cfg.Symbol = opts.symbol
	cfg.Interval = opts.interval
	cfg.LogLevel = opts.logLevel
	cfg.BinCount = opts.bins

	// 2. Initialize Logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	appLogger.Debug(context.Background(), "Logger initialized", ports.Fields{"level": cfg.LogLevel.String()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Initialize Repository (report history, optional)
	var repo ports.ReportRepository = noop.NewRepository()
	if cfg.DBPath != "" {
		sqliteRepo, err := sqlite.NewRepository(sqlite.Config{
			DBPath: cfg.DBPath,
			Logger: appLogger,
		})
		if err != nil {
			appLogger.Error(ctx, err, "Failed to initialize report history")
			return ports.ExitFailure
		}
		repo = sqliteRepo
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing report history")
		}
	}()

	// 4. Initialize Exchange Client (Binance Adapter)
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
		appLogger.Error(ctx, err, "Failed to initialize Binance client")
		return ports.ExitFailure
	}

	// 5. Initialize Application Service
	pocService, err := app.NewPOCService(cfg, appLogger, binanceClient, repo)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize POC service")
		return ports.ExitFailure
	}

	// 6. Run
	rep, err := pocService.Run(ctx, app.Request{
		Symbol:    cfg.Symbol,
		Interval:  cfg.Interval,
		StartDate: opts.start,
		EndDate:   opts.end,
		PrevPOC:   opts.prevPOC,
		CSVPath:   opts.csvPath,
	})
	if err != nil {
		if errors.Is(err, ports.ErrNoData) {
			return ports.ExitCode(err)
		}
		appLogger.Error(ctx, err, "A critical error occurred")
		return ports.ExitCode(err)
	}

	// The result goes to stdout, not to the log.
	if err := report.NewRenderer(os.Stdout, report.ColorEnabled(os.Stdout)).Render(rep); err != nil {
		appLogger.Error(ctx, err, "Failed to print result")
		return ports.ExitFailure
	}
	return ports.ExitOK
}
