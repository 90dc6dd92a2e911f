package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"cryptoPOC/internal/domain"
	"cryptoPOC/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.ReportRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is required", ports.ErrConfigurationError)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %w", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %w", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// A single writer is all SQLite supports; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Debug(context.Background(), "SQLite database connection established", ports.Fields{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS poc_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		interval TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		start_ms INTEGER NOT NULL,
		end_ms INTEGER NOT NULL,
		kline_count INTEGER NOT NULL,
		bin_count INTEGER NOT NULL,
		poc REAL NOT NULL,
		prev_poc REAL NOT NULL,
		change_pct REAL NULL, -- NULL when the previous POC was zero
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_poc_reports_symbol_interval_created ON poc_reports (symbol, interval, created_at);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("%w: failed to execute schema initialization: %w", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Debug(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveReport stores a report and returns its assigned ID.
func (r *Repository) SaveReport(ctx context.Context, report *domain.POCReport) (int64, error) {
	const query = `
	INSERT INTO poc_reports (symbol, interval, start_date, end_date, start_ms, end_ms,
	                         kline_count, bin_count, poc, prev_poc, change_pct, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// SQLite has no representation for infinities.
	var changePct sql.NullFloat64
	if !math.IsInf(report.ChangePct, 0) && !math.IsNaN(report.ChangePct) {
		changePct = sql.NullFloat64{Float64: report.ChangePct, Valid: true}
	}
	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		report.Symbol, report.Interval, report.StartDate, report.EndDate, report.StartMs, report.EndMs,
		report.KlineCount, report.BinCount, report.POC, report.PrevPOC, changePct, createdAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: failed to insert report for symbol %s: %w", ports.ErrQueryFailed, report.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for report %s: %w", report.Symbol, err)
	}
	report.ID = id
	report.CreatedAt = createdAt
	r.logger.Debug(ctx, "POC report saved", ports.Fields{"reportID": id, "symbol": report.Symbol, "poc": report.POC})
	return id, nil
}

const selectReport = `
	SELECT id, symbol, interval, start_date, end_date, start_ms, end_ms,
	       kline_count, bin_count, poc, prev_poc, change_pct, created_at
	FROM poc_reports`

// FindLatest retrieves the most recent report for a symbol and interval.
func (r *Repository) FindLatest(ctx context.Context, symbol, interval string) (*domain.POCReport, error) {
	const query = selectReport + `
	WHERE symbol = ? AND interval = ?
	ORDER BY created_at DESC, id DESC LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, symbol, interval)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "No stored report found", ports.Fields{"symbol": symbol, "interval": interval})
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("%w: failed to query latest report for %s %s: %w", ports.ErrQueryFailed, symbol, interval, err)
	}
	return report, nil
}

// FindBySymbol retrieves the most recent reports for a symbol, up to a limit.
// An empty symbol lists reports for every symbol.
func (r *Repository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.POCReport, error) {
	const query = selectReport + `
	WHERE (? = '' OR symbol = ?)
	ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query reports for symbol %s: %w", ports.ErrQueryFailed, symbol, err)
	}
	defer rows.Close()

	reports := make([]*domain.POCReport, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report during FindBySymbol: %w", err)
		}
		reports = append(reports, report)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return reports, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanReport scans a row into a domain.POCReport struct.
func scanReport(s scanner) (*domain.POCReport, error) {
	rep := &domain.POCReport{}
	var changePct sql.NullFloat64
	err := s.Scan(
		&rep.ID, &rep.Symbol, &rep.Interval, &rep.StartDate, &rep.EndDate, &rep.StartMs, &rep.EndMs,
		&rep.KlineCount, &rep.BinCount, &rep.POC, &rep.PrevPOC, &changePct, &rep.CreatedAt)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	if changePct.Valid {
		rep.ChangePct = changePct.Float64
	} else {
		rep.ChangePct = math.Inf(1)
	}
	return rep, nil
}
