package calc

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

const nanText = "NaN"

// Formatter renders numbers the way the calculator display shows them.
type Formatter struct {
	Precision int
	Rounding  Rounding
	Places    Places
}

func NewFormatter(precision int, rounding Rounding, places Places) Formatter {
	return Formatter{Precision: precision, Rounding: rounding, Places: places}
}

// Format renders n per the rounding setting. The result is cut from the
// right so its digit count never exceeds Precision, whole digits included.
func (f Formatter) Format(n Number) string {
	if n.IsNaN() {
		return nanText
	}

	var rounder apd.Rounder
	switch f.Rounding {
	case RoundTruncate:
		return truncateDigits(trimFraction(n.String()), f.Precision)
	case RoundFloor:
		rounder = apd.RoundDown
	case RoundHalfUp:
		rounder = apd.RoundHalfUp
	default:
		return truncateDigits(trimFraction(n.String()), f.Precision)
	}

	ctx := newContext(f.Precision, rounder)
	quantized := new(apd.Decimal)
	if _, err := ctx.Quantize(quantized, n.dec(), -int32(f.Places.Digits())); err != nil {
		// Quantizing would need more digits than the precision holds.
		return truncateDigits(n.String(), f.Precision)
	}
	return truncateDigits(fromDecimal(quantized).String(), f.Precision)
}

// trimFraction drops trailing fractional zeros and a dangling point.
func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// truncateDigits cuts s from the right so that at most limit digits remain,
// dropping a dangling point.
func truncateDigits(s string, limit int) string {
	if countDigits(s) <= limit {
		return s
	}
	kept, end := 0, 0
	for end < len(s) && kept < limit {
		if isDigit(s[end]) {
			kept++
		}
		end++
	}
	return strings.TrimSuffix(s[:end], ".")
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			n++
		}
	}
	return n
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
