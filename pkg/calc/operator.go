package calc

// SetOperator installs op as the pending operation, first resolving a
// pending operation whose right operand was just entered ("5 + 3 -").
//
// In K mode pressing the same operator twice arms a constant instead, and
// "+" or "-" right after a percent key consumes the percentage base.
func (e *Engine) SetOperator(op Op) {
	key := op.Key()
	if key == KeyNone {
		return
	}

	if e.settings.Mode == ModeK && e.lastKey == key {
		e.kArmed = true
		e.constant = constant{op: op, value: e.value}
		e.finishEntry()
		e.lastKey = key
		e.logger.Printf("calc: K constant armed: %v %v", op, e.value)
		return
	}

	if e.entering {
		if p := e.pending; p != nil {
			e.pending = nil
			e.value = e.arith.Apply(p.op, p.operand, e.value)
		}
		e.finishEntry()
	}
	e.kArmed = false

	if e.settings.Mode == ModeK && e.percentBase != nil && e.lastKey == KeyPercent &&
		(op == OpAdd || op == OpSub) {
		e.consumePercentBase(op)
		e.lastKey = key
		return
	}

	e.pending = &pendingOp{operand: e.value, op: op}
	e.lastKey = key
}

// consumePercentBase bridges a K-mode percent result into "+" or "-":
// after "A × B %" it adds or subtracts A; after a markup "-" shows the
// profit. The base is spent either way.
func (e *Engine) consumePercentBase(op Op) {
	base := *e.percentBase
	switch e.lastPercentOp {
	case OpMul:
		e.value = e.arith.Apply(op, base, e.value)
	case OpAdd:
		if op == OpSub {
			e.value = base
		}
	case OpSub, OpDiv, opNone:
	}
	e.percentBase = nil
	e.lastPercentOp = opNone
	e.pending = nil
	e.finishEntry()
}

// resolvePending computes the result of whichever mechanism governs "=":
// an armed K constant, the pending operation, or a remembered Non-K
// constant. The result is also stored as the display value.
func (e *Engine) resolvePending() Number {
	if e.settings.Mode == ModeK && e.kArmed {
		c := e.constant
		switch c.op {
		case OpMul:
			e.value = e.arith.Mul(c.value, e.value)
		case OpAdd, OpSub, OpDiv:
			e.value = e.arith.Apply(c.op, e.value, c.value)
		case opNone:
		}
		return e.value
	}

	if p := e.pending; p != nil {
		e.pending = nil
		right := e.value
		e.constant = constant{op: p.op, value: right}
		if e.settings.Mode == ModeNonK && p.op == OpMul {
			e.constant.value = p.operand
		}
		e.value = e.arith.Apply(p.op, p.operand, right)
		return e.value
	}

	if e.settings.Mode != ModeNonK || !e.constant.set() {
		return e.value
	}

	if e.deltaInspection() && e.percentBase != nil {
		e.value = *e.percentBase
		e.percentBase = nil
		e.constant.percent = false
		e.logger.Printf("calc: percent delta %v, constant now %v %v", e.value, e.constant.op, e.constant.value)
		return e.value
	}

	c := e.constant
	if !c.percent {
		e.value = e.arith.Apply(c.op, e.value, c.value)
		return e.value
	}
	switch c.op {
	case OpAdd:
		e.value = e.arith.Add(c.value, e.arith.PercentOf(c.value, e.value))
	case OpSub:
		e.value = e.arith.Sub(c.value, e.arith.PercentOf(c.value, e.value))
	case OpDiv:
		e.value = e.arith.Ratio(e.value, c.value)
	case OpMul:
		e.value = e.arith.PercentOf(c.value, e.value)
	case opNone:
	}
	return e.value
}

// deltaInspection reports the Non-K "=" right after a markup or discount
// percent: it shows the delta already computed instead of a new result.
func (e *Engine) deltaInspection() bool {
	return e.settings.Mode == ModeNonK && e.lastKey == KeyPercent && e.constant.percent &&
		(e.constant.op == OpAdd || e.constant.op == OpSub)
}

// Equals resolves the pending mechanism and finalizes the result into GT.
func (e *Engine) Equals() {
	delta := e.deltaInspection()
	result := e.resolvePending()
	if !delta {
		e.addGrandTotal(result)
	}
	e.finishEntry()
	e.lastKey = KeyEquals
	e.percentBase = nil
	e.lastPercentOp = opNone
}
