package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"cryptoPOC/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "DEBUG", want: LevelDebug},
		{in: "info", want: LevelInfo},
		{in: "WARNING", want: LevelWarn},
		{in: "warn", want: LevelWarn},
		{in: "ERROR", want: LevelError},
		{in: "CRITICAL", want: LevelCritical},
		{in: "LOUD", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ports.ErrConfigurationError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "WARNING", LevelWarn.String())
	assert.Equal(t, "CRITICAL", LevelCritical.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestZerologLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})
	ctx := context.Background()

	l.Debug(ctx, "hidden")
	l.Info(ctx, "hidden too")
	l.Warn(ctx, "no data", ports.Fields{"symbol": "BTCUSDT"})
	l.Error(ctx, errors.New("boom"), "fetch failed")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "no data", entries[0]["message"])
	assert.Equal(t, "BTCUSDT", entries[0]["symbol"])
	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestZerologLogger_Critical(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelCritical, Format: FormatJSON, Output: &buf})

	l.Error(context.Background(), errors.New("boom"), "suppressed")
	assert.Empty(t, buf.String())
	assert.Equal(t, LevelCritical, l.Level())
}

func TestZerologLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})

	l.Debug(context.Background(), "page fetched", ports.Fields{"count": 1000})
	assert.Contains(t, buf.String(), "page fetched")
	assert.Contains(t, buf.String(), "count=")
}
