package noop

import (
	"context"

	"cryptoPOC/internal/domain"
)

// Repository is a no-op ports.ReportRepository used when no history database is configured.
type Repository struct{}

func NewRepository() *Repository { return &Repository{} }

func (n *Repository) SaveReport(_ context.Context, _ *domain.POCReport) (int64, error) { return 0, nil }
func (n *Repository) FindLatest(_ context.Context, _, _ string) (*domain.POCReport, error) {
	return nil, nil
}
func (n *Repository) FindBySymbol(_ context.Context, _ string, _ int) ([]*domain.POCReport, error) {
	return nil, nil
}
func (n *Repository) Close() error { return nil }
