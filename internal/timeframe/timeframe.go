// Package timeframe converts interval tokens and calendar dates into the millisecond
// values the Binance klines endpoint works with.
package timeframe

import (
	"fmt"
	"strconv"
	"time"

	"cryptoPOC/internal/ports"
)

const (
	MinuteMillis int64 = 60 * 1000
	HourMillis         = 60 * MinuteMillis
	DayMillis          = 24 * HourMillis

	// DateLayout is the only accepted calendar date format (YYYY-MM-DD).
	DateLayout = "2006-01-02"
)

var unitMillis = map[byte]int64{
	'm': MinuteMillis,
	'h': HourMillis,
	'd': DayMillis,
}

// Window is a closed range of epoch milliseconds.
type Window struct {
	StartMs int64
	EndMs   int64
}

// ParseIntervalToMillis converts an interval token such as "1m", "4h" or "1d" to milliseconds.
func ParseIntervalToMillis(interval string) (int64, error) {
	if len(interval) < 2 {
		return 0, fmt.Errorf("%w: %q", ports.ErrInvalidInterval, interval)
	}
	unit := interval[len(interval)-1]
	value, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ports.ErrInvalidInterval, interval, err)
	}
	mult, ok := unitMillis[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported unit '%c' in %q", ports.ErrInvalidInterval, unit, interval)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ports.ErrInvalidInterval, interval)
	}
	return int64(value) * mult, nil
}

// ParseDateToEpochMillis returns the epoch milliseconds of local midnight on the given YYYY-MM-DD date.
func ParseDateToEpochMillis(date string) (int64, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not in YYYY-MM-DD format: %w", ports.ErrInvalidDate, date, err)
	}
	return t.UnixMilli(), nil
}

// NewWindow builds the fetch window for a date range. The end date is inclusive
// through its final millisecond.
func NewWindow(startDate, endDate string) (Window, error) {
	start, err := ParseDateToEpochMillis(startDate)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseDateToEpochMillis(endDate)
	if err != nil {
		return Window{}, err
	}
	w := Window{StartMs: start, EndMs: end + DayMillis - 1}
	if w.StartMs > w.EndMs {
		return Window{}, fmt.Errorf("%w: start %s is after end %s", ports.ErrInvalidDate, startDate, endDate)
	}
	return w, nil
}

// Start returns the window start as a local time.
func (w Window) Start() time.Time {
	return time.UnixMilli(w.StartMs)
}

// End returns the window end as a local time.
func (w Window) End() time.Time {
	return time.UnixMilli(w.EndMs)
}
