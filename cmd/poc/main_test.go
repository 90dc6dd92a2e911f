package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoPOC/config"
	"cryptoPOC/internal/adapters/logger"
	"cryptoPOC/internal/ports"
)

func baseConfig() *config.Config {
	return &config.Config{
		Symbol:   "BTCUSDT",
		Interval: "1h",
		BinCount: 500,
		LogLevel: logger.LevelInfo,
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags([]string{"--start", "2024-01-01", "--end", "2024-01-31", "--prev-poc", "42000"}, baseConfig(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", opts.symbol)
	assert.Equal(t, "1h", opts.interval)
	assert.Equal(t, "2024-01-01", opts.start)
	assert.Equal(t, "2024-01-31", opts.end)
	assert.Equal(t, 42000.0, opts.prevPOC)
	assert.Equal(t, logger.LevelInfo, opts.logLevel)
	assert.Equal(t, 500, opts.bins)
	assert.Empty(t, opts.csvPath)
}

func TestParseFlags_Overrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"--symbol", "ETHUSDT", "--start", "2024-02-01", "--end", "2024-02-29",
		"--interval", "4h", "--prev-poc", "0", "--log", "WARNING", "--bins", "100", "--csv", "out.csv",
	}, baseConfig(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", opts.symbol)
	assert.Equal(t, "4h", opts.interval)
	assert.Equal(t, 0.0, opts.prevPOC)
	assert.Equal(t, logger.LevelWarn, opts.logLevel)
	assert.Equal(t, 100, opts.bins)
	assert.Equal(t, "out.csv", opts.csvPath)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing prev-poc", args: []string{"--start", "2024-01-01", "--end", "2024-01-31"}},
		{name: "missing dates", args: []string{"--prev-poc", "1"}},
		{name: "bad log level", args: []string{"--start", "2024-01-01", "--end", "2024-01-31", "--prev-poc", "1", "--log", "TRACE"}},
		{name: "zero bins", args: []string{"--start", "2024-01-01", "--end", "2024-01-31", "--prev-poc", "1", "--bins", "0"}},
		{name: "stray argument", args: []string{"--start", "2024-01-01", "--end", "2024-01-31", "--prev-poc", "1", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, baseConfig(), io.Discard)
			assert.Nil(t, opts)
			assert.ErrorIs(t, err, ports.ErrConfigurationError)
		})
	}
}

func TestParseFlags_NotANumber(t *testing.T) {
	_, err := parseFlags([]string{"--start", "2024-01-01", "--end", "2024-01-31", "--prev-poc", "abc"}, baseConfig(), io.Discard)
	assert.Error(t, err)
}

func TestParseFlags_Help(t *testing.T) {
	_, err := parseFlags([]string{"-h"}, baseConfig(), io.Discard)
	assert.ErrorIs(t, err, flag.ErrHelp)
}
