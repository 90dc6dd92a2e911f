package ports

import (
	"context"

	"cryptoPOC/internal/domain"
)

// ReportRepository defines the interface for storing and retrieving computed POC reports.
type ReportRepository interface {
	// SaveReport stores a report and returns its assigned ID.
	SaveReport(ctx context.Context, report *domain.POCReport) (int64, error)
	// FindLatest retrieves the most recent report for a symbol and interval.
	// Returns nil, nil if none is stored.
	FindLatest(ctx context.Context, symbol, interval string) (*domain.POCReport, error)
	// FindBySymbol retrieves the most recent reports for a symbol, newest first, up to a limit.
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.POCReport, error)
	// Close releases the underlying storage.
	Close() error
}
