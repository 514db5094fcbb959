package parser

import (
	"math"
	"strconv"
)

// segmentKind tags a piece of a price span after magnitude segmentation.
type segmentKind int

const (
	segmentNumber segmentKind = iota
	segmentMultiplier
)

// segment is either a run of number words or a major multiplier.
type segment struct {
	kind  segmentKind
	words []string // segmentNumber only
	value int64    // segmentMultiplier only
}

// ResolvePrice converts a sequence of Indonesian number and multiplier words
// into one integer. "lima ratus dua puluh satu ribu" resolves to 521000.
//
// Words that are neither numbers nor multipliers act as separators inside a
// segment. A result that would overflow int64 resolves to 0. The input slice
// is never modified.
func ResolvePrice(words []string) int64 {
	total, ok := recombine(splitByMajorMultipliers(mergeCompounds(words)))
	if !ok {
		return 0
	}
	return total
}

// mergeCompounds joins adjacent pairs that form a known two-word number
// ("dua puluh") so that segmentation never splits a pre-composed value.
func mergeCompounds(words []string) []string {
	merged := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if i+1 < len(words) {
			pair := words[i] + " " + words[i+1]
			if _, ok := lookupNumberWord(pair); ok {
				merged = append(merged, pair)
				i += 2
				continue
			}
		}
		merged = append(merged, words[i])
		i++
	}
	return merged
}

// splitByMajorMultipliers cuts the token stream at every "ribu" and "juta",
// keeping order. A multiplier with nothing before it produces no number
// segment and is later ignored.
func splitByMajorMultipliers(words []string) []segment {
	var segments []segment
	var current []string

	for _, word := range words {
		if !isMajorMultiplier(word) {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			segments = append(segments, segment{kind: segmentNumber, words: current})
			current = nil
		}
		value, _ := lookupMultiplier(word)
		segments = append(segments, segment{kind: segmentMultiplier, value: value})
	}

	if len(current) > 0 {
		segments = append(segments, segment{kind: segmentNumber, words: current})
	}
	return segments
}

// recombine scales each number segment by the multiplier that directly
// follows it, if any, and sums everything.
func recombine(segments []segment) (int64, bool) {
	var total int64
	for i := 0; i < len(segments); i++ {
		seg := segments[i]
		if seg.kind != segmentNumber {
			continue
		}

		value, ok := resolveSegment(seg.words)
		if !ok {
			return 0, false
		}
		if i+1 < len(segments) && segments[i+1].kind == segmentMultiplier {
			if value, ok = mulInt64(value, segments[i+1].value); !ok {
				return 0, false
			}
			i++
		}
		if total, ok = addInt64(total, value); !ok {
			return 0, false
		}
	}
	return total, true
}

// accumulator is the fold state for one segment. current holds the value
// under construction and total the values already flushed.
type accumulator struct {
	current  int64
	total    int64
	overflow bool
}

// load starts a new value. A value already being built is flushed first, so
// "seratus dua puluh" sums 100 and 20 instead of discarding the hundred.
func (a *accumulator) load(value int64) {
	a.flush()
	a.current = value
}

// scale applies a minor multiplier; a bare "puluh" or "ratus" counts as one.
func (a *accumulator) scale(factor int64) {
	if a.current == 0 {
		a.current = 1
	}
	var ok bool
	if a.current, ok = mulInt64(a.current, factor); !ok {
		a.overflow = true
	}
}

func (a *accumulator) flush() {
	var ok bool
	if a.total, ok = addInt64(a.total, a.current); !ok {
		a.overflow = true
	}
	a.current = 0
}

// resolveSegment folds the tokens of one number segment left to right.
func resolveSegment(words []string) (int64, bool) {
	var acc accumulator

	for _, word := range words {
		switch {
		case isDigits(word):
			n, err := strconv.ParseInt(word, 10, 64)
			if err != nil {
				return 0, false
			}
			acc.load(n)
		case word == wordTens:
			acc.scale(10)
		case word == wordHundreds:
			acc.scale(100)
		default:
			if n, ok := lookupNumberWord(word); ok {
				acc.load(n)
			} else {
				acc.flush()
			}
		}
		if acc.overflow {
			return 0, false
		}
	}

	acc.flush()
	if acc.overflow {
		return 0, false
	}
	return acc.total, true
}

func addInt64(a, b int64) (int64, bool) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// mulInt64 multiplies two non-negative values.
func mulInt64(a, b int64) (int64, bool) {
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}
