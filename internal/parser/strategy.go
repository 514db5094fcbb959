package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Strategy names, reported with every successful parse
const (
	StrategyCurrencyLiteral = "currency_literal"
	StrategyWordNumeral     = "word_numeral"
	StrategyNumeralWithUnit = "numeral_with_unit"
	StrategyBareNumeral     = "bare_numeral"
)

// Candidate is an unvalidated split of a transcript into name and price.
type Candidate struct {
	ItemName string
	Price    int64
}

// Strategy tries to split a normalized transcript into an item name and a
// price. Strategies are independent; ordering is decided by the caller.
type Strategy interface {
	Name() string
	Attempt(text string) (Candidate, bool)
}

// DefaultStrategies returns the extraction strategies in priority order.
// Explicit currency notation wins over number words, number words win over
// "<number> <unit>" shorthands, and a bare digit run is the last resort.
func DefaultStrategies() []Strategy {
	return []Strategy{
		currencyLiteral{},
		wordNumeral{},
		numeralWithUnit{},
		bareNumeral{},
	}
}

// Compiled patterns, grouped per strategy
var (
	currencyLiteralPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\s+rp\s*(\d+(?:[.,]\d{3})*)$`),
		regexp.MustCompile(`^(.+?)\s+(\d+(?:[.,]\d{3})*)\s*rupiah?$`),
	}

	numeralWithUnitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\s+(\d+|` + smallNumberWords + `)\s*(ribu|rb|k)$`),
		regexp.MustCompile(`^(.+?)\s+(\d+|` + smallNumberWords + `)\s*(juta)$`),
		regexp.MustCompile(`^(.+?)\s+(\d+)\s*(ratus)$`),
	}

	bareNumeralPattern = regexp.MustCompile(`^(.+?)\s+(\d{3,})$`)

	groupingSeparatorPattern = regexp.MustCompile(`[.,]`)
)

// currencyLiteral handles "<name> rp 75000" and "<name> 75000 rupiah".
type currencyLiteral struct{}

func (currencyLiteral) Name() string { return StrategyCurrencyLiteral }

func (currencyLiteral) Attempt(text string) (Candidate, bool) {
	for _, pattern := range currencyLiteralPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		price, ok := parseGroupedDigits(match[2])
		if !ok {
			continue
		}
		return Candidate{ItemName: strings.TrimSpace(match[1]), Price: price}, true
	}
	return Candidate{}, false
}

// parseGroupedDigits strips "." and "," grouping and parses the digits.
func parseGroupedDigits(s string) (int64, bool) {
	n, err := strconv.ParseInt(groupingSeparatorPattern.ReplaceAllString(s, ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// wordNumeral handles spelled-out prices such as "mangga lima puluh ribu".
// The first token that looks like part of a number starts the price span.
type wordNumeral struct{}

func (wordNumeral) Name() string { return StrategyWordNumeral }

func (wordNumeral) Attempt(text string) (Candidate, bool) {
	words := strings.Split(text, " ")
	start := priceStartIndex(words)
	if start <= 0 {
		return Candidate{}, false
	}
	return Candidate{
		ItemName: strings.Join(words[:start], " "),
		Price:    ResolvePrice(words[start:]),
	}, true
}

// priceStartIndex returns the index of the first price trigger, or -1.
func priceStartIndex(words []string) int {
	for i, word := range words {
		if isPriceTrigger(word) {
			return i
		}
		if i+1 < len(words) {
			if _, ok := lookupNumberWord(word + " " + words[i+1]); ok {
				return i
			}
		}
	}
	return -1
}

func isPriceTrigger(word string) bool {
	if _, ok := lookupNumberWord(word); ok {
		return true
	}
	if _, ok := lookupMultiplier(word); ok {
		return true
	}
	return isDigits(word) || word == wordSe
}

// numeralWithUnit handles "<name> 80 ribu", "<name> 80k", "<name> dua juta"
// and "<name> 5 ratus".
type numeralWithUnit struct{}

func (numeralWithUnit) Name() string { return StrategyNumeralWithUnit }

func (numeralWithUnit) Attempt(text string) (Candidate, bool) {
	for _, pattern := range numeralWithUnitPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		base, ok := resolveUnitBase(match[2])
		if !ok {
			continue
		}
		factor, _ := lookupMultiplier(match[3])
		price, ok := mulInt64(base, factor)
		if !ok {
			continue
		}
		return Candidate{ItemName: strings.TrimSpace(match[1]), Price: price}, true
	}
	return Candidate{}, false
}

func resolveUnitBase(s string) (int64, bool) {
	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	return lookupNumberWord(s)
}

// bareNumeral handles "<name> 3000". A three-digit figure is read as
// thousands: on its own this strategy prices "5 telur 500" at 500000.
type bareNumeral struct{}

func (bareNumeral) Name() string { return StrategyBareNumeral }

func (bareNumeral) Attempt(text string) (Candidate, bool) {
	match := bareNumeralPattern.FindStringSubmatch(text)
	if match == nil {
		return Candidate{}, false
	}
	price, err := strconv.ParseInt(match[2], 10, 64)
	if err != nil {
		return Candidate{}, false
	}
	if price >= 100 && price <= 999 {
		price *= 1000
	}
	return Candidate{ItemName: strings.TrimSpace(match[1]), Price: price}, true
}
