package utils

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"cryptoPOC/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteKlinesToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "klines.csv")
	klines := []*domain.Kline{
		{OpenTime: 1704067200000, CloseTime: 1704070799999, Symbol: "BTCUSDT", Interval: "1h", Open: 42283.58, High: 42554.57, Low: 42261.02, Close: 42475.23, Volume: 1271.68108},
		{OpenTime: 1704070800000, CloseTime: 1704074399999, Symbol: "BTCUSDT", Interval: "1h", Open: 42475.23, High: 42775, Low: 42431.65, Close: 42613.56, Volume: 1196.37856},
	}

	require.NoError(t, WriteKlinesToCSV(klines, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, klineCSVHeader, records[0])
	assert.Equal(t, "2024-01-01T00:00:00Z", records[1][0])
	assert.Equal(t, "1704067200000", records[1][1])
	assert.Equal(t, "BTCUSDT", records[1][3])
	assert.Equal(t, "42475.23", records[1][8])
	assert.Equal(t, "1196.37856", records[2][9])
}
