// Package fetcher assembles a complete kline series for a time range out of the
// fixed-size pages served by a KlinePageProvider.
package fetcher

import (
	"context"
	"fmt"

	"cryptoPOC/internal/domain"
	"cryptoPOC/internal/ports"
	"cryptoPOC/internal/timeframe"
)

// DefaultPageSize is the number of klines requested per page when none is configured.
const DefaultPageSize = ports.MaxPageSize

// Config holds the dependencies of a SeriesFetcher.
type Config struct {
	Provider ports.KlinePageProvider
	Logger   ports.Logger
	PageSize int // 0 means DefaultPageSize
}

// SeriesFetcher walks a time range page by page, advancing a cursor past the last kline seen.
type SeriesFetcher struct {
	provider ports.KlinePageProvider
	logger   ports.Logger
	pageSize int
}

// New creates a new SeriesFetcher.
func New(cfg Config) (*SeriesFetcher, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("%w: page provider is required for series fetcher", ports.ErrConfigurationError)
	}
	pageSize := cfg.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 0 || pageSize > ports.MaxPageSize {
		return nil, fmt.Errorf("%w: page size %d outside 1..%d", ports.ErrConfigurationError, pageSize, ports.MaxPageSize)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &SeriesFetcher{provider: cfg.Provider, logger: logger, pageSize: pageSize}, nil
}

// PageSize returns the configured page size.
func (f *SeriesFetcher) PageSize() int {
	return f.pageSize
}

// FetchSeries retrieves every kline for symbol/interval with OpenTime in [startMs, endMs].
//
// Each request starts at the cursor and ends at endMs. After a non-empty page the cursor moves to
// the last OpenTime plus one interval step, so no bucket is requested twice. The loop stops on an
// empty page or once the cursor reaches endMs. Klines past endMs in the final page are kept.
//
// Provider errors are returned unchanged. A page that would not move the cursor forward fails
// with ports.ErrDataIntegrity.
func (f *SeriesFetcher) FetchSeries(ctx context.Context, symbol, interval string, startMs, endMs int64) ([]*domain.Kline, error) {
	stepMs, err := timeframe.ParseIntervalToMillis(interval)
	if err != nil {
		return nil, err
	}

	f.logger.Info(ctx, "Starting kline download", ports.Fields{"symbol": symbol, "interval": interval, "startMs": startMs, "endMs": endMs})

	var series []*domain.Kline
	cursor := startMs
	pages := 0
	for cursor < endMs {
		page, err := f.provider.GetKlinePage(ctx, symbol, interval, cursor, endMs, f.pageSize)
		if err != nil {
			return nil, err
		}
		pages++
		if len(page) == 0 {
			break
		}
		if err := f.checkPage(page, cursor); err != nil {
			return nil, err
		}

		series = append(series, page...)
		next := page[len(page)-1].OpenTime + stepMs
		if next <= cursor {
			return nil, fmt.Errorf("%w: cursor did not advance past %d", ports.ErrDataIntegrity, cursor)
		}
		cursor = next
		f.logger.Debug(ctx, "Fetched kline page", ports.Fields{"page": pages, "count": len(page), "nextCursorMs": cursor})
	}

	f.logger.Info(ctx, "Kline download finished", ports.Fields{"symbol": symbol, "klines": len(series), "requests": pages})
	return series, nil
}

// checkPage verifies a page starts at or after the cursor, respects the limit and is strictly
// increasing in OpenTime.
func (f *SeriesFetcher) checkPage(page []*domain.Kline, cursor int64) error {
	if len(page) > f.pageSize {
		return fmt.Errorf("%w: page holds %d klines, limit is %d", ports.ErrDataIntegrity, len(page), f.pageSize)
	}
	prev := cursor - 1
	for i, k := range page {
		if k == nil {
			return fmt.Errorf("%w: nil kline at page index %d", ports.ErrDataIntegrity, i)
		}
		if k.OpenTime <= prev {
			return fmt.Errorf("%w: open time %d at page index %d does not follow %d", ports.ErrDataIntegrity, k.OpenTime, i, prev)
		}
		prev = k.OpenTime
	}
	return nil
}
