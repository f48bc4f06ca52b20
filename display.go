package main

import (
	"fmt"
	"strings"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

// renderReadout builds the keyboard message text: an indicator line, the
// pending operation if any, then the display.
func renderReadout(r calc.Readout, settings calc.Settings) string {
	var indicators []string
	if r.Constant {
		indicators = append(indicators, "K")
	}
	if r.Memory {
		indicators = append(indicators, "M")
	}
	if r.GrandTotal {
		indicators = append(indicators, "GT")
	}
	indicators = append(indicators, settingsLabel(settings))

	lines := []string{strings.Join(indicators, " ")}
	if r.Status != "" {
		lines = append(lines, r.Status)
	}

	display := r.Display
	if !r.Entering && !r.Error {
		display = groupDigits(display)
	}
	lines = append(lines, display)
	return strings.Join(lines, "\n")
}

func settingsLabel(s calc.Settings) string {
	return fmt.Sprintf("[%s %d %s %s]", s.Mode, s.Precision, s.Rounding, s.Places)
}

func describeSettings(s calc.Settings) string {
	return strings.Join([]string{
		"Settings:",
		"mode: " + s.Mode.String(),
		fmt.Sprintf("precision: %d", s.Precision),
		"rounding: " + s.Rounding.String(),
		"places: " + s.Places.String(),
		"tax: " + s.TaxRate.String() + "%",
	}, "\n")
}

// feedback is the callback toast shown when a register changed.
func feedback(r calc.Readout) string {
	switch {
	case r.MemoryChanged && r.GrandTotalChanged:
		return "M and GT updated"
	case r.MemoryChanged:
		return "M updated"
	case r.GrandTotalChanged:
		return "GT updated"
	}
	return ""
}

// groupDigits inserts thousands separators into the integer part of a
// plain decimal string. Anything else is returned unchanged.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	integer, fraction, hasPoint := strings.Cut(s, ".")
	if integer == "" || strings.Trim(integer, "0123456789") != "" {
		return sign + s
	}

	var b strings.Builder
	for i, c := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	if hasPoint {
		b.WriteByte('.')
		b.WriteString(fraction)
	}
	return sign + b.String()
}
