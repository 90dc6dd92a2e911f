package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// Input Errors
	ErrInvalidInterval    = errors.New("invalid interval")
	ErrInvalidDate        = errors.New("invalid date")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Series Errors
	ErrTransport     = errors.New("market data transport failure")
	ErrDataIntegrity = errors.New("market data integrity violation")
	ErrNoData        = errors.New("no market data found for the requested range")

	// Transport classification (always accompanied by ErrTransport)
	ErrUnknown          = errors.New("unknown error occurred")
	ErrInvalidRequest   = errors.New("invalid request parameters or format")
	ErrTimeout          = errors.New("operation timed out")
	ErrContextCanceled  = errors.New("operation canceled via context")
	ErrConnectionFailed = errors.New("failed to connect to the exchange")
	ErrRateLimited      = errors.New("API rate limit exceeded")
	ErrExchangeDown     = errors.New("exchange API is unavailable")

	// Database Specific Errors
	ErrNotFound       = errors.New("resource not found")
	ErrDBConnection   = errors.New("database connection error")
	ErrQueryFailed    = errors.New("database query failed")
	ErrDuplicateEntry = errors.New("database record already exists")
)

// Exit codes returned by the command line tools.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// ExitCode maps an error returned by the application to a process exit status.
// A run that found no data is reported as a warning and still exits cleanly.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrNoData) {
		return ExitOK
	}
	return ExitFailure
}

