package calc

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Number is an immutable base-10 floating decimal. The zero value is 0.
// A NaN Number is the only arithmetic error signal the engine produces.
type Number struct {
	d *apd.Decimal
}

var zeroDecimal apd.Decimal

func NaN() Number {
	return Number{d: &apd.Decimal{Form: apd.NaN}}
}

func Zero() Number {
	return Number{}
}

func NewInt(v int64) Number {
	return Number{d: apd.New(v, 0)}
}

// ParseNumber reads s exactly, without rounding it to any precision.
func ParseNumber(s string) (Number, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Number{}, fmt.Errorf("parse number %q: %w", s, err)
	}
	return fromDecimal(d), nil
}

// fromDecimal wraps d, folding a negative zero into zero.
func fromDecimal(d *apd.Decimal) Number {
	if d.Form == apd.Finite && d.IsZero() {
		d.Negative = false
	}
	return Number{d: d}
}

func MustParse(s string) Number {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// parseEntry converts an input buffer such as "12." or "-0.5" to a Number.
func parseEntry(buffer string) (Number, error) {
	text := strings.TrimSuffix(buffer, ".")
	if text == "" || text == "-" {
		return Number{}, fmt.Errorf("parse entry %q: no digits", buffer)
	}
	return ParseNumber(text)
}

func (n Number) dec() *apd.Decimal {
	if n.d == nil {
		return &zeroDecimal
	}
	return n.d
}

func (n Number) IsNaN() bool {
	if n.d == nil {
		return false
	}
	return n.d.Form == apd.NaN || n.d.Form == apd.NaNSignaling
}

func (n Number) IsZero() bool {
	return !n.IsNaN() && n.dec().IsZero()
}

// Sign returns -1, 0 or +1. NaN reports 0.
func (n Number) Sign() int {
	if n.IsNaN() {
		return 0
	}
	return n.dec().Sign()
}

// Cmp orders two finite numbers. NaN sorts after every finite value and
// equal to itself.
func (n Number) Cmp(o Number) int {
	switch {
	case n.IsNaN() && o.IsNaN():
		return 0
	case n.IsNaN():
		return 1
	case o.IsNaN():
		return -1
	}
	return n.dec().Cmp(o.dec())
}

func (n Number) Equal(o Number) bool {
	return n.Cmp(o) == 0
}

func (n Number) Neg() Number {
	if n.IsNaN() || n.IsZero() {
		return n
	}
	return Number{d: new(apd.Decimal).Neg(n.dec())}
}

// String renders n in plain positional notation, never in exponent form.
func (n Number) String() string {
	if n.IsNaN() {
		return nanText
	}
	return n.dec().Text('f')
}

func (n Number) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Number) UnmarshalText(text []byte) error {
	v, err := ParseNumber(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
