package calc

// Percent applies the percent key. What it computes depends on the calc
// mode, the pending operator and, in Non-K mode, the remembered constant:
//
//	Non-K  A × B %   A*B/100                 constant × A
//	Non-K  A ÷ B %   A/B*100                 constant ÷% B
//	Non-K  A + B %   A + A*B/100 (markup)    constant +% A, delta A*B/100
//	Non-K  A - B %   A - A*B/100 (discount)  constant -% A, delta -A*B/100
//	K      A × B %   A*B/100                 base A for a following + or -
//	K      A ÷ B %   A/B*100
//	K      A + B %   A/(1-B/100)             base is the profit
//	K      A - B %   (A-B)/B*100 (margin)
//
// Without a pending operation the value is divided by 100, unless a Non-K
// percent constant is active, in which case the constant is re-applied to
// the new value. Pressing percent again without a new entry does nothing.
func (e *Engine) Percent() {
	if e.lastKey == KeyPercent {
		return
	}
	e.lastKey = KeyPercent
	e.finishEntry()

	switch {
	case e.settings.Mode == ModeK && e.kArmed && e.constant.op == OpSub:
		e.value = e.margin(e.value, e.constant.value)
	case e.pending == nil && e.settings.Mode == ModeNonK && e.percentChains():
		e.value = e.chainPercent()
		e.addGrandTotal(e.value)
		e.logger.Printf("calc: percent chain %v %v -> %v", e.constant.op, e.constant.value, e.value)
	case e.pending == nil:
		e.value = e.arith.Quo(e.value, hundred)
	default:
		p := *e.pending
		e.pending = nil
		switch e.settings.Mode {
		case ModeNonK:
			e.value = e.percentNonK(p.operand, p.op, e.value)
			e.addGrandTotal(e.value)
		case ModeK:
			e.value = e.percentK(p.operand, p.op, e.value)
		}
	}
}

// percentChains reports whether a Non-K constant can be re-applied by a
// bare percent key.
func (e *Engine) percentChains() bool {
	return e.constant.percent || e.constant.op == OpMul
}

func (e *Engine) chainPercent() Number {
	a, b := e.constant.value, e.value
	switch e.constant.op {
	case OpMul:
		return e.arith.PercentOf(a, b)
	case OpDiv:
		return e.arith.Ratio(b, a)
	case OpAdd:
		return e.arith.Add(a, e.arith.PercentOf(a, b))
	case OpSub:
		return e.arith.Sub(a, e.arith.PercentOf(a, b))
	case opNone:
	}
	return b
}

func (e *Engine) percentNonK(a Number, op Op, b Number) Number {
	switch op {
	case OpMul:
		e.constant = constant{op: OpMul, value: a}
		return e.arith.PercentOf(a, b)
	case OpDiv:
		e.constant = constant{op: OpDiv, percent: true, value: b}
		return e.arith.Ratio(a, b)
	case OpAdd:
		delta := e.arith.PercentOf(a, b)
		e.constant = constant{op: OpAdd, percent: true, value: a}
		e.percentBase = &delta
		return e.arith.Add(a, delta)
	case OpSub:
		delta := e.arith.PercentOf(a, b)
		e.constant = constant{op: OpSub, percent: true, value: a}
		neg := delta.Neg()
		e.percentBase = &neg
		return e.arith.Sub(a, delta)
	case opNone:
	}
	return b
}

func (e *Engine) percentK(a Number, op Op, b Number) Number {
	e.lastPercentOp = op
	switch op {
	case OpMul:
		base := a
		e.percentBase = &base
		return e.arith.PercentOf(a, b)
	case OpDiv:
		return e.arith.Ratio(a, b)
	case OpAdd:
		result := e.markup(a, b)
		profit := e.arith.Sub(result, a)
		e.percentBase = &profit
		return result
	case OpSub:
		return e.margin(a, b)
	case opNone:
	}
	return b
}

// markup returns the selling price a/(1-rate/100); a 100% rate is NaN.
func (e *Engine) markup(a, rate Number) Number {
	if rate.Equal(hundred) {
		return NaN()
	}
	return e.arith.Quo(a, e.arith.Sub(NewInt(1), e.arith.Quo(rate, hundred)))
}

// margin returns (a-b)/b*100; a zero base is NaN.
func (e *Engine) margin(a, b Number) Number {
	if b.IsZero() {
		return NaN()
	}
	return e.arith.Ratio(e.arith.Sub(a, b), b)
}
