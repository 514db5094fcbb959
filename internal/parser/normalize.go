package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Compiled regex patterns for transcript normalization
var (
	// Punctuation that speech engines insert but that never carries price meaning
	punctuationPattern = regexp.MustCompile(`[.,!?]`)

	// RE2's \s is ASCII only; add vertical tab, NEL and the Unicode separators
	// that NFKC does not fold to a plain space (U+2028, U+2029)
	multiSpacePattern = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

	// Currency marker "rp" as its own word or glued to digits ("rp75000").
	// Words that merely start with "rp" (e.g. "rpm") are left alone.
	rupiahMarkerPattern = regexp.MustCompile(`\brp(?:\s+|(\d)|$)`)
)

// Normalize canonicalizes a raw transcript before any strategy runs:
// compatibility forms are folded (NFKC, so full-width digits become ASCII),
// the text is trimmed and lowercased, ". , ! ?" are removed, whitespace runs
// collapse to one space and every currency marker becomes the token "rp ".
func Normalize(transcript string) string {
	s := norm.NFKC.String(transcript)
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctuationPattern.ReplaceAllString(s, "")
	s = multiSpacePattern.ReplaceAllString(s, " ")
	s = rupiahMarkerPattern.ReplaceAllString(s, "rp $1")
	return strings.TrimSpace(s)
}
