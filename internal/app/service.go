package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"cryptoPOC/config"
	"cryptoPOC/internal/domain"
	"cryptoPOC/internal/fetcher"
	"cryptoPOC/internal/indicators"
	"cryptoPOC/internal/ports"
	"cryptoPOC/internal/timeframe"
	"cryptoPOC/internal/utils"
)

// Request describes one POC computation.
type Request struct {
	Symbol    string
	Interval  string
	StartDate string  // YYYY-MM-DD
	EndDate   string  // YYYY-MM-DD, inclusive
	PrevPOC   float64 // Previously known POC to compare against
	CSVPath   string  // Optional: write the fetched series here
}

// POCService orchestrates one fetch-then-compute cycle.
type POCService struct {
	cfg     *config.Config
	logger  ports.Logger
	fetcher *fetcher.SeriesFetcher
	poc     *indicators.POCIndicator
	reports ports.ReportRepository
	now     func() time.Time
}

// NewPOCService creates a new application service instance.
func NewPOCService(
	cfg *config.Config,
	logger ports.Logger,
	provider ports.KlinePageProvider,
	reports ports.ReportRepository,
) (*POCService, error) {
	if cfg == nil || logger == nil || provider == nil || reports == nil {
		return nil, fmt.Errorf("missing required dependencies for POCService")
	}

	f, err := fetcher.New(fetcher.Config{
		Provider: provider,
		Logger:   logger,
		PageSize: cfg.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create series fetcher: %w", err)
	}

	return &POCService{
		cfg:     cfg,
		logger:  logger,
		fetcher: f,
		poc:     indicators.NewPOCIndicator(indicators.POCConfig{BinCount: cfg.BinCount}),
		reports: reports,
		now:     time.Now,
	}, nil
}

// ChangePercent returns the percentage change from prev to poc.
// A zero previous value yields +Inf.
func ChangePercent(poc, prev float64) float64 {
	if prev == 0 {
		return math.Inf(1)
	}
	return (poc - prev) / prev * 100
}

// Run fetches the klines for the requested range, computes the POC and compares it with
// the previous value. An empty range returns an error wrapping ports.ErrNoData.
func (s *POCService) Run(ctx context.Context, req Request) (*domain.POCReport, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ports.ErrInvalidRequest)
	}

	window, err := timeframe.NewWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := timeframe.ParseIntervalToMillis(req.Interval); err != nil {
		return nil, err
	}

	fields := ports.Fields{"symbol": req.Symbol, "interval": req.Interval, "start": req.StartDate, "end": req.EndDate}

	if last, err := s.reports.FindLatest(ctx, req.Symbol, req.Interval); err != nil {
		s.logger.Warn(ctx, "Could not read report history", ports.Fields{"error": err.Error()})
	} else if last != nil {
		s.logger.Info(ctx, "Last stored POC", ports.Fields{"poc": last.POC, "start": last.StartDate, "end": last.EndDate})
	}

	klines, err := s.fetcher.FetchSeries(ctx, req.Symbol, req.Interval, window.StartMs, window.EndMs)
	if err != nil {
		return nil, err
	}
	if len(klines) == 0 {
		s.logger.Warn(ctx, "No data found for the requested range", fields)
		return nil, fmt.Errorf("%w: %s %s from %s to %s", ports.ErrNoData, req.Symbol, req.Interval, req.StartDate, req.EndDate)
	}

	if req.CSVPath != "" {
		if err := utils.WriteKlinesToCSV(klines, req.CSVPath); err != nil {
			return nil, fmt.Errorf("failed to export klines to %s: %w", req.CSVPath, err)
		}
		s.logger.Info(ctx, "Klines exported", ports.Fields{"path": req.CSVPath, "count": len(klines)})
	}

	poc, err := s.poc.Calculate(ctx, klines)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate %s: %w", s.poc.Name(), err)
	}

	report := &domain.POCReport{
		Symbol:     req.Symbol,
		Interval:   req.Interval,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		StartMs:    window.StartMs,
		EndMs:      window.EndMs,
		KlineCount: len(klines),
		BinCount:   s.poc.BinCount(),
		POC:        poc,
		PrevPOC:    req.PrevPOC,
		ChangePct:  ChangePercent(poc, req.PrevPOC),
		CreatedAt:  s.now(),
	}
	s.logger.Debug(ctx, "POC computed", ports.Fields{"poc": poc, "klines": len(klines), "bins": report.BinCount})

	// History is best effort; a failed write must not hide the result.
	if _, err := s.reports.SaveReport(ctx, report); err != nil {
		s.logger.Error(ctx, err, "Failed to store POC report", fields)
	}

	return report, nil
}
