package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cryptoPOC/internal/domain"
)

var klineCSVHeader = []string{"open_time", "open_time_ms", "close_time_ms", "symbol", "interval", "open", "high", "low", "close", "volume"}

// WriteKlinesToCSV writes a kline series to filename, creating parent directories as needed.
func WriteKlinesToCSV(klines []*domain.Kline, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(klineCSVHeader); err != nil {
		return err
	}
	for _, k := range klines {
		err := writer.Write([]string{
			time.UnixMilli(k.OpenTime).UTC().Format(time.RFC3339),
			strconv.FormatInt(k.OpenTime, 10),
			strconv.FormatInt(k.CloseTime, 10),
			k.Symbol,
			k.Interval,
			strconv.FormatFloat(k.Open, 'f', -1, 64),
			strconv.FormatFloat(k.High, 'f', -1, 64),
			strconv.FormatFloat(k.Low, 'f', -1, 64),
			strconv.FormatFloat(k.Close, 'f', -1, 64),
			strconv.FormatFloat(k.Volume, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
