package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voicecart/backend/internal/domain"
	"go.uber.org/zap"
)

// Result sources
const (
	SourceParser = "parser"
	SourceCache  = "cache"
)

const (
	defaultCacheTTL     = 24 * time.Hour
	defaultMaxBatchSize = 50
)

// ParseServiceConfig holds configuration for the parse service
type ParseServiceConfig struct {
	CacheTTL     time.Duration
	MaxBatchSize int
}

// ParseService turns transcripts into priced items, memoizing successful
// parses in the cache. A nil cache disables caching.
type ParseService struct {
	cache        domain.CacheRepository
	parser       domain.TranscriptParser
	cacheTTL     time.Duration
	maxBatchSize int
	logger       *zap.Logger
}

// NewParseService creates a new parse service with dependencies
func NewParseService(
	cache domain.CacheRepository,
	parser domain.TranscriptParser,
	config ParseServiceConfig,
	logger *zap.Logger,
) *ParseService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}
	maxBatchSize := config.MaxBatchSize
	if maxBatchSize <= 0 {
		maxBatchSize = defaultMaxBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ParseService{
		cache:        cache,
		parser:       parser,
		cacheTTL:     cacheTTL,
		maxBatchSize: maxBatchSize,
		logger:       logger,
	}
}

// ParseTranscript extracts the item and price from one finalized transcript.
// Flow: normalize -> check cache -> parse -> cache -> return
func (s *ParseService) ParseTranscript(ctx context.Context, transcript string) (*domain.ParsedTranscript, error) {
	normalized := s.parser.Normalize(transcript)
	if normalized == "" {
		return nil, domain.ErrEmptyTranscript
	}

	cacheKey := generateCacheKey(normalized)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = SourceCache
		return cached, nil
	}

	result, err := s.parser.Parse(transcript)
	if err != nil {
		s.logger.Debug("transcript not understood",
			zap.String("normalized", normalized),
			zap.Error(err))
		return nil, err
	}

	parsed := &domain.ParsedTranscript{
		ItemName:       result.Item.ItemName,
		Price:          result.Item.Price,
		FormattedPrice: s.parser.FormatPrice(result.Item.Price),
		Strategy:       result.Strategy,
		Source:         SourceParser,
	}

	// Caching is best effort; a broken cache must not fail the parse.
	if err := s.setInCache(ctx, cacheKey, parsed); err != nil {
		s.logger.Warn("failed to cache parse result", zap.String("key", cacheKey), zap.Error(err))
	}

	return parsed, nil
}

// ParseBatch parses each transcript independently, preserving order.
// Per-item failures are reported as error codes, not as a batch failure.
func (s *ParseService) ParseBatch(ctx context.Context, transcripts []string) ([]domain.BatchItem, error) {
	if len(transcripts) == 0 || len(transcripts) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: batch size must be between 1 and %d, got %d",
			domain.ErrInvalidRequest, s.maxBatchSize, len(transcripts))
	}

	items := make([]domain.BatchItem, len(transcripts))
	for i, transcript := range transcripts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items[i].Transcript = transcript
		parsed, err := s.ParseTranscript(ctx, transcript)
		if err != nil {
			items[i].Error = domain.ErrorCode(err)
			continue
		}
		items[i].Result = parsed
	}
	return items, nil
}

// FormatPrice renders a whole-Rupiah amount for display
func (s *ParseService) FormatPrice(amount int64) string {
	return s.parser.FormatPrice(amount)
}

// generateCacheKey creates the cache key for a normalized transcript.
// Format: "transcript:{normalized}"
func generateCacheKey(normalized string) string {
	return "transcript:" + normalized
}

// getFromCache retrieves a parse result from cache
func (s *ParseService) getFromCache(ctx context.Context, key string) (*domain.ParsedTranscript, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var parsed domain.ParsedTranscript
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, domain.ErrCacheMiss
	}
	return &parsed, nil
}

// setInCache stores a copy of the parse result stamped with the cache time
func (s *ParseService) setInCache(ctx context.Context, key string, parsed *domain.ParsedTranscript) error {
	if s.cache == nil {
		return nil
	}

	entry := *parsed
	now := time.Now().UTC()
	entry.CachedAt = &now

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.cacheTTL)
}
