package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cryptoPOC/internal/domain"
	"cryptoPOC/internal/ports"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/jpillora/backoff"
)

const (
	// Base URLs
	baseURLProduction = "https://api.binance.com"
	baseURLTestnet    = "https://testnet.binance.vision"
)

// Client implements ports.KlinePageProvider on top of the go-binance spot client.
type Client struct {
	spotClient     *binance.Client
	logger         ports.Logger
	maxRetries     int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey         string
	SecretKey      string
	UseTestnet     bool
	BaseURL        string        // Overrides the production/testnet URL when set
	RequestTimeout time.Duration // Per-request HTTP timeout (e.g., 30 * time.Second)
	MaxRetries     int           // Retries for rate limits, timeouts and connection failures
	RetryBaseDelay time.Duration // First backoff delay, doubled on every retry
	RetryMaxDelay  time.Duration // Upper bound for a single backoff delay
	Logger         ports.Logger
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: max retries cannot be negative", ports.ErrConfigurationError)
	}

	// Klines are public market data; keys are only forwarded when configured.
	client := binance.NewClient(cfg.APIKey, cfg.SecretKey)

	switch {
	case cfg.BaseURL != "":
		client.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	case cfg.UseTestnet:
		client.BaseURL = baseURLTestnet
	default:
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Debug(context.Background(), "Binance client configured", ports.Fields{"baseURL": client.BaseURL})

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.HTTPClient = &http.Client{Timeout: timeout}

	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	maxDelay := cfg.RetryMaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}

	return &Client{
		spotClient:     client,
		logger:         cfg.Logger,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: baseDelay,
		retryMaxDelay:  maxDelay,
	}, nil
}

// handleError translates Binance API and network errors into standardized ports errors.
// Every error returned carries ports.ErrTransport plus a more specific classification.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := ports.Fields{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003, -1015: // Too many requests / too many orders
			mappedErr = ports.ErrRateLimited
		case -1007, -1021: // Backend timeout / timestamp outside recvWindow
			mappedErr = ports.ErrTimeout
		case 0, -1000, -1001, -1008: // Non-JSON body, unknown, disconnected, server busy
			mappedErr = ports.ErrExchangeDown
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1112, -1114, -1115, -1116, -1117, -1120, -1121, -1125, -1127, -1128, -1130:
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrUnknown
		}
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return fmt.Errorf("%s failed: %w: %w: %w", operation, ports.ErrTransport, mappedErr, err)
	}

	var mappedErr error
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		mappedErr = ports.ErrContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		mappedErr = ports.ErrTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		mappedErr = ports.ErrTimeout
	case errors.As(err, &netErr),
		strings.Contains(err.Error(), "use of closed network connection"),
		strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "connection reset by peer"):
		mappedErr = ports.ErrConnectionFailed
	default:
		// Default for other errors (e.g., malformed response bodies)
		mappedErr = ports.ErrUnknown
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return fmt.Errorf("%s failed: %w: %w: %w", operation, ports.ErrTransport, mappedErr, err)
}

// retryable reports whether a translated error is worth another attempt.
func retryable(err error) bool {
	return errors.Is(err, ports.ErrRateLimited) ||
		errors.Is(err, ports.ErrTimeout) ||
		errors.Is(err, ports.ErrConnectionFailed) ||
		errors.Is(err, ports.ErrExchangeDown)
}

// GetKlinePage retrieves one page of historical klines with OpenTime in [startMs, endMs].
// Rate limits, timeouts and connection failures are retried with exponential backoff.
func (c *Client) GetKlinePage(ctx context.Context, symbol, interval string, startMs, endMs int64, limit int) ([]*domain.Kline, error) {
	op := "GetKlinePage"
	if limit <= 0 || limit > ports.MaxPageSize {
		limit = ports.MaxPageSize
	}

	b := &backoff.Backoff{
		Min:    c.retryBaseDelay,
		Max:    c.retryMaxDelay,
		Factor: 2,
		Jitter: true,
	}

	for {
		binanceKlines, err := c.spotClient.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(startMs).
			EndTime(endMs).
			Limit(limit).
			Do(ctx)
		if err == nil {
			return translateKlines(binanceKlines, symbol, interval)
		}

		finalErr := c.handleError(ctx, err, op)
		attempt := int(b.Attempt())
		if !retryable(finalErr) || attempt >= c.maxRetries || ctx.Err() != nil {
			return nil, finalErr
		}

		delay := b.Duration()
		c.logger.Warn(ctx, op+": request failed, retrying...", ports.Fields{"symbol": symbol, "startMs": startMs, "attempt": attempt + 1, "delay": delay.String()})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, c.handleError(ctx, ctx.Err(), op)
		}
	}
}

// --- Translation Helpers ---

func translateKlines(binanceKlines []*binance.Kline, symbol, interval string) ([]*domain.Kline, error) {
	domainKlines := make([]*domain.Kline, 0, len(binanceKlines))
	for _, bk := range binanceKlines {
		dk, err := translateBinanceKline(bk, symbol, interval)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to translate historical kline: %w", ports.ErrDataIntegrity, err)
		}
		domainKlines = append(domainKlines, dk)
	}
	return domainKlines, nil
}

func translateBinanceKline(bk *binance.Kline, symbol, interval string) (*domain.Kline, error) {
	if bk == nil {
		return nil, errors.New("received nil historical kline")
	}
	open, err := strconv.ParseFloat(bk.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing open price '%s': %w", bk.Open, err)
	}
	high, err := strconv.ParseFloat(bk.High, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing high price '%s': %w", bk.High, err)
	}
	low, err := strconv.ParseFloat(bk.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing low price '%s': %w", bk.Low, err)
	}
	cls, err := strconv.ParseFloat(bk.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing close price '%s': %w", bk.Close, err)
	}
	vol, err := strconv.ParseFloat(bk.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing volume '%s': %w", bk.Volume, err)
	}

	return &domain.Kline{
		OpenTime:  bk.OpenTime,
		CloseTime: bk.CloseTime,
		Symbol:    symbol,   // Use passed symbol as it's not in binance.Kline
		Interval:  interval, // Use passed interval
		Open:      open,
		High:      high,
		Low:       low,
		Close:     cls,
		Volume:    vol,
	}, nil
}
