package timeframe

import (
	"testing"
	"time"

	"cryptoPOC/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntervalToMillis(t *testing.T) {
	tests := []struct {
		name     string
		interval string
		want     int64
		wantErr  bool
	}{
		{name: "one minute", interval: "1m", want: 60000},
		{name: "fifteen minutes", interval: "15m", want: 900000},
		{name: "four hours", interval: "4h", want: 14400000},
		{name: "one day", interval: "1d", want: 86400000},
		{name: "unknown unit", interval: "1x", wantErr: true},
		{name: "not a number", interval: "abc", wantErr: true},
		{name: "missing value", interval: "h", wantErr: true},
		{name: "empty", interval: "", wantErr: true},
		{name: "zero", interval: "0h", wantErr: true},
		{name: "negative", interval: "-1h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntervalToMillis(tt.interval)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ports.ErrInvalidInterval)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateToEpochMillis(t *testing.T) {
	got, err := ParseDateToEpochMillis("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local).UnixMilli(), got)

	for _, bad := range []string{"2024-13-01", "not-a-date", "2024-1-1", "", "2024-02-30"} {
		_, err := ParseDateToEpochMillis(bad)
		assert.ErrorIs(t, err, ports.ErrInvalidDate, "date %q", bad)
	}
}

func TestNewWindow(t *testing.T) {
	w, err := NewWindow("2024-01-01", "2024-01-02")
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local).UnixMilli()
	endDay := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local).UnixMilli()
	assert.Equal(t, start, w.StartMs)
	assert.Equal(t, endDay+DayMillis-1, w.EndMs)

	single, err := NewWindow("2024-01-01", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, DayMillis-1, single.EndMs-single.StartMs)

	_, err = NewWindow("2024-01-03", "2024-01-01")
	assert.ErrorIs(t, err, ports.ErrInvalidDate)

	_, err = NewWindow("2024-01-01", "tomorrow")
	assert.ErrorIs(t, err, ports.ErrInvalidDate)
}
