package domain

import "time"

// ExtractedItemPrice is a single item recognized in a spoken transcript.
// It is only produced by a successful extraction: ItemName is non-empty and
// title-cased, Price is strictly positive whole Rupiah.
type ExtractedItemPrice struct {
	ItemName string `json:"itemName"`
	Price    int64  `json:"price"`
}

// ParseResult is what the parser returns on success
type ParseResult struct {
	Item       ExtractedItemPrice
	Strategy   string // name of the strategy that produced Item
	Normalized string // canonical transcript the strategies ran on
}

// ParsedTranscript is the response shape for a parsed transcript
type ParsedTranscript struct {
	ItemName       string     `json:"itemName"`
	Price          int64      `json:"price"`
	FormattedPrice string     `json:"formattedPrice"`
	Strategy       string     `json:"strategy"`
	Source         string     `json:"source"` // "parser" or "cache"
	CachedAt       *time.Time `json:"cachedAt,omitempty"`
}

// ParseRequest represents a single transcript parse request
type ParseRequest struct {
	Transcript string `json:"transcript"`
}

// BatchParseRequest represents a request to parse several transcripts at once
type BatchParseRequest struct {
	Transcripts []string `json:"transcripts" binding:"required"`
}

// BatchItem is the outcome for one transcript of a batch.
// Exactly one of Result and Error is set.
type BatchItem struct {
	Transcript string            `json:"transcript"`
	Result     *ParsedTranscript `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// FormattedPrice is the response for a currency formatting request
type FormattedPrice struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}
