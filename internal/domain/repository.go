package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque serialized bytes, the same shape a Redis backend would hold.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// TranscriptParser turns a finalized transcript into an item and price,
// and renders prices for display
type TranscriptParser interface {
	Normalize(transcript string) string
	Parse(transcript string) (ParseResult, error)
	FormatPrice(amount int64) string
}
