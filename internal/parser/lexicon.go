package parser

// numberWords maps Indonesian number words to their value. Besides the atomic
// words it holds a closed set of two-word compounds that are recognized as one
// unit and never decomposed again.
var numberWords = map[string]int64{
	"nol":      0,
	"satu":     1,
	"dua":      2,
	"tiga":     3,
	"empat":    4,
	"lima":     5,
	"enam":     6,
	"tujuh":    7,
	"delapan":  8,
	"sembilan": 9,
	"sepuluh":  10,
	"sebelas":  11,

	"dua belas":      12,
	"lima belas":     15,
	"dua puluh":      20,
	"tiga puluh":     30,
	"empat puluh":    40,
	"lima puluh":     50,
	"enam puluh":     60,
	"tujuh puluh":    70,
	"delapan puluh":  80,
	"sembilan puluh": 90,

	// "se" only counts as a whole token; seratus/seribu/sejuta are listed explicitly.
	"se":      1,
	"seratus": 100,
	"seribu":  1_000,
	"sejuta":  1_000_000,
}

// multipliers maps scaling words, including the informal "rb" and "k", to
// their factor.
var multipliers = map[string]int64{
	"puluh": 10,
	"ratus": 100,
	"ribu":  1_000,
	"juta":  1_000_000,
	"rb":    1_000,
	"k":     1_000,
}

const (
	wordTens     = "puluh"
	wordHundreds = "ratus"
	wordThousand = "ribu"
	wordMillion  = "juta"
	wordSe       = "se"
)

// smallNumberWords is the alternation of single-digit words accepted in front
// of a unit by the numeral-with-unit strategy.
const smallNumberWords = `satu|dua|tiga|empat|lima|enam|tujuh|delapan|sembilan`

func lookupNumberWord(word string) (int64, bool) {
	v, ok := numberWords[word]
	return v, ok
}

func lookupMultiplier(word string) (int64, bool) {
	v, ok := multipliers[word]
	return v, ok
}

// isMajorMultiplier reports whether word splits a price into magnitude segments.
func isMajorMultiplier(word string) bool {
	return word == wordThousand || word == wordMillion
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
