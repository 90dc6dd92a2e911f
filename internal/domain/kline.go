package domain

// Kline represents a single candlestick data point.
// Times are milliseconds since the Unix epoch, as returned by the exchange.
type Kline struct {
	OpenTime  int64   // Start of the interval (ms)
	CloseTime int64   // End of the interval (ms)
	Symbol    string  // Trading symbol
	Interval  string  // Kline interval (e.g., "1m", "1h")
	Open      float64 // Opening price
	High      float64 // Highest price
	Low       float64 // Lowest price
	Close     float64 // Closing price
	Volume    float64 // Base asset volume traded in the interval
}
