package domain

import "errors"

var (
	// ErrEmptyTranscript is returned when the transcript is empty after normalization
	ErrEmptyTranscript = errors.New("empty transcript")

	// ErrNoPriceFound is returned when no extraction strategy matches the transcript
	ErrNoPriceFound = errors.New("no item and price found in transcript")

	// ErrInvalidSpan is returned when a strategy matched but produced an empty
	// item name or a non-positive price
	ErrInvalidSpan = errors.New("matched item or price is invalid")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// ErrorCode returns the stable machine-readable code for a parse failure.
// Unknown errors map to "internal".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEmptyTranscript):
		return "empty_transcript"
	case errors.Is(err, ErrNoPriceFound):
		return "no_price_found"
	case errors.Is(err, ErrInvalidSpan):
		return "invalid_span"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "internal"
	}
}
