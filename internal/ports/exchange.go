package ports

import (
	"context"

	"cryptoPOC/internal/domain"
)

// MaxPageSize is the largest page the spot klines endpoint will serve.
const MaxPageSize = 1000

// KlinePageProvider is the only abstraction the core has over the remote market-data source.
// Implementations own transport concerns such as retries, timeouts and rate limiting.
type KlinePageProvider interface {
	// GetKlinePage returns up to limit klines with OpenTime in [startMs, endMs], ordered by OpenTime.
	// An empty result means the source has no more data in the range.
	// Transport failures must be wrapped with ErrTransport.
	GetKlinePage(ctx context.Context, symbol, interval string, startMs, endMs int64, limit int) ([]*domain.Kline, error)
}

// KlinePageProviderFunc adapts an ordinary function to the KlinePageProvider interface.
type KlinePageProviderFunc func(ctx context.Context, symbol, interval string, startMs, endMs int64, limit int) ([]*domain.Kline, error)

// GetKlinePage calls f(ctx, symbol, interval, startMs, endMs, limit).
func (f KlinePageProviderFunc) GetKlinePage(ctx context.Context, symbol, interval string, startMs, endMs int64, limit int) ([]*domain.Kline, error) {
	return f(ctx, symbol, interval, startMs, endMs, limit)
}
