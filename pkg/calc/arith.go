package calc

import (
	"github.com/cockroachdb/apd/v3"
)

// MaxPrecision is the largest significant-digit limit an engine accepts.
const MaxPrecision = 34

var hundred = NewInt(100)

// Arith carries the significant-digit limit applied to every operation.
// Each engine owns its own Arith, so engines never share precision state.
type Arith struct {
	ctx *apd.Context
}

func NewArith(precision int) Arith {
	return Arith{ctx: newContext(precision, apd.RoundHalfEven)}
}

func newContext(precision int, rounding apd.Rounder) *apd.Context {
	return &apd.Context{
		Precision:   uint32(precision),
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Traps:       apd.DefaultTraps,
		Rounding:    rounding,
	}
}

func (a Arith) Add(x, y Number) Number {
	return a.compute(func(d *apd.Decimal) (apd.Condition, error) {
		return a.ctx.Add(d, x.dec(), y.dec())
	}, x, y)
}

func (a Arith) Sub(x, y Number) Number {
	return a.compute(func(d *apd.Decimal) (apd.Condition, error) {
		return a.ctx.Sub(d, x.dec(), y.dec())
	}, x, y)
}

func (a Arith) Mul(x, y Number) Number {
	return a.compute(func(d *apd.Decimal) (apd.Condition, error) {
		return a.ctx.Mul(d, x.dec(), y.dec())
	}, x, y)
}

// Quo divides x by y. A zero divisor yields NaN.
func (a Arith) Quo(x, y Number) Number {
	if y.IsZero() {
		return NaN()
	}
	return a.compute(func(d *apd.Decimal) (apd.Condition, error) {
		return a.ctx.Quo(d, x.dec(), y.dec())
	}, x, y)
}

// Sqrt returns the principal square root. Negative operands yield NaN.
func (a Arith) Sqrt(x Number) Number {
	if x.Sign() < 0 {
		return NaN()
	}
	return a.compute(func(d *apd.Decimal) (apd.Condition, error) {
		return a.ctx.Sqrt(d, x.dec())
	}, x)
}

// Apply evaluates "x op y".
func (a Arith) Apply(op Op, x, y Number) Number {
	switch op {
	case OpAdd:
		return a.Add(x, y)
	case OpSub:
		return a.Sub(x, y)
	case OpMul:
		return a.Mul(x, y)
	case OpDiv:
		return a.Quo(x, y)
	case opNone:
		return y
	}
	return NaN()
}

// PercentOf returns x*y/100.
func (a Arith) PercentOf(x, y Number) Number {
	return a.Quo(a.Mul(x, y), hundred)
}

// Ratio returns x/y*100.
func (a Arith) Ratio(x, y Number) Number {
	return a.Mul(a.Quo(x, y), hundred)
}

// Scale returns x*(1+rate/100).
func (a Arith) Scale(x, rate Number) Number {
	return a.Mul(x, a.Add(NewInt(1), a.Quo(rate, hundred)))
}

// Unscale returns x/(1+rate/100).
func (a Arith) Unscale(x, rate Number) Number {
	return a.Quo(x, a.Add(NewInt(1), a.Quo(rate, hundred)))
}

func (a Arith) compute(fn func(d *apd.Decimal) (apd.Condition, error), operands ...Number) Number {
	for _, o := range operands {
		if o.IsNaN() {
			return NaN()
		}
	}
	d := new(apd.Decimal)
	if _, err := fn(d); err != nil {
		return NaN()
	}
	if d.Form != apd.Finite {
		return NaN()
	}
	return fromDecimal(d)
}
