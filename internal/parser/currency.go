package parser

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rupiahSymbol = "Rp"

// rupiahPrinter applies Indonesian digit grouping ("50.000").
// message.Printer is safe for concurrent use.
var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatToRupiah renders a whole-Rupiah amount the way id-ID displays IDR:
// no decimals, "." as thousands separator, e.g. "Rp 50.000" or "-Rp 5.000".
func FormatToRupiah(price int64) string {
	if price < 0 {
		// -(price+1)+1 keeps math.MinInt64 representable.
		abs := uint64(-(price + 1)) + 1
		return "-" + rupiahSymbol + " " + rupiahPrinter.Sprintf("%d", abs)
	}
	return rupiahSymbol + " " + rupiahPrinter.Sprintf("%d", price)
}
