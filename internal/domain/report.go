package domain

import "time"

// POCReport is the outcome of one fetch-then-compute cycle for a symbol and date range.
type POCReport struct {
	ID         int64     // Unique identifier (assigned by the history store)
	Symbol     string    // Trading symbol (e.g., "BTCUSDT")
	Interval   string    // Kline interval used for the fetch
	StartDate  string    // Requested start date (YYYY-MM-DD)
	EndDate    string    // Requested end date (YYYY-MM-DD), inclusive
	StartMs    int64     // Window start (ms)
	EndMs      int64     // Window end (ms), last millisecond of EndDate
	KlineCount int       // Number of klines the POC was computed from
	BinCount   int       // Histogram resolution
	POC        float64   // Computed Point of Control
	PrevPOC    float64   // Previously known POC supplied by the caller
	ChangePct  float64   // Percentage change from PrevPOC (+Inf when PrevPOC is zero)
	CreatedAt  time.Time // When the report was produced
}

// IsUp reports whether the POC moved up (or stayed flat) relative to the previous value.
func (r *POCReport) IsUp() bool {
	return r.ChangePct >= 0
}
