// Package parser extracts an item name and a Rupiah price from a finalized
// Indonesian speech transcript, e.g. "mangga lima puluh ribu" becomes
// {Mangga, 50000}.
//
// Parsing is a pure function of the input: no I/O, no shared mutable state.
// A Parser may be used from any number of goroutines.
package parser

import (
	"github.com/voicecart/backend/internal/domain"
	"go.uber.org/zap"
)

// Parser runs the extraction strategies over a normalized transcript.
type Parser struct {
	strategies []Strategy
	logger     *zap.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger enables debug tracing of strategy attempts
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStrategies replaces the default strategy list; order is priority.
func WithStrategies(strategies ...Strategy) Option {
	return func(p *Parser) {
		p.strategies = strategies
	}
}

// New creates a parser with the default strategies
func New(opts ...Option) *Parser {
	p := &Parser{
		strategies: DefaultStrategies(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize returns the canonical form of transcript. See Normalize.
func (p *Parser) Normalize(transcript string) string {
	return Normalize(transcript)
}

// FormatPrice renders amount as Rupiah. See FormatToRupiah.
func (p *Parser) FormatPrice(amount int64) string {
	return FormatToRupiah(amount)
}

// Parse extracts one item and price from transcript. Strategies run in
// priority order and the first candidate that passes validation wins.
//
// Errors: domain.ErrEmptyTranscript, domain.ErrNoPriceFound when nothing
// matched, domain.ErrInvalidSpan when something matched but no candidate
// had both a name and a positive price.
func (p *Parser) Parse(transcript string) (domain.ParseResult, error) {
	normalized := Normalize(transcript)
	if normalized == "" {
		return domain.ParseResult{}, domain.ErrEmptyTranscript
	}

	matched := false
	for _, strategy := range p.strategies {
		candidate, ok := strategy.Attempt(normalized)
		if !ok {
			continue
		}
		matched = true

		item, ok := validate(candidate)
		if !ok {
			p.logger.Debug("candidate rejected",
				zap.String("strategy", strategy.Name()),
				zap.String("itemName", candidate.ItemName),
				zap.Int64("price", candidate.Price))
			continue
		}

		p.logger.Debug("transcript parsed",
			zap.String("strategy", strategy.Name()),
			zap.String("normalized", normalized),
			zap.String("itemName", item.ItemName),
			zap.Int64("price", item.Price))
		return domain.ParseResult{
			Item:       item,
			Strategy:   strategy.Name(),
			Normalized: normalized,
		}, nil
	}

	p.logger.Debug("no strategy produced a result", zap.String("normalized", normalized))
	if matched {
		return domain.ParseResult{}, domain.ErrInvalidSpan
	}
	return domain.ParseResult{}, domain.ErrNoPriceFound
}

var defaultParser = New()

// ExtractItemAndPrice returns the item and price spoken in transcript.
// ok is false for empty input and for transcripts with no usable price.
// It never panics.
func ExtractItemAndPrice(transcript string) (item domain.ExtractedItemPrice, ok bool) {
	result, err := defaultParser.Parse(transcript)
	if err != nil {
		return domain.ExtractedItemPrice{}, false
	}
	return result.Item, true
}
