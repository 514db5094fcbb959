package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/voicecart/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// validate is the gate every candidate passes before leaving the package:
// the trimmed name must be non-empty and the price strictly positive.
func validate(c Candidate) (domain.ExtractedItemPrice, bool) {
	name := strings.TrimSpace(c.ItemName)
	if name == "" || c.Price <= 0 {
		return domain.ExtractedItemPrice{}, false
	}
	return domain.ExtractedItemPrice{
		ItemName: titleCase(name),
		Price:    c.Price,
	}, true
}

// titleCase upper-cases the first letter of every space-delimited word and
// lower-cases the rest ("nabati DAN oreo" -> "Nabati Dan Oreo").
// Hyphenated words keep a single capital: "coca-cola" -> "Coca-cola".
func titleCase(name string) string {
	upper := cases.Upper(language.Indonesian)
	lower := cases.Lower(language.Indonesian)

	words := strings.Split(name, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		words[i] = upper.String(string(r)) + lower.String(word[size:])
	}
	return strings.Join(words, " ")
}
