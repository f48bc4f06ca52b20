package calc

// MemoryPlus adds the completed value to M, resolving a pending operation
// first.
func (e *Engine) MemoryPlus() {
	e.accumulateMemory(e.arith.Add)
	e.lastKey = KeyMemoryPlus
}

func (e *Engine) MemoryMinus() {
	e.accumulateMemory(e.arith.Sub)
	e.lastKey = KeyMemoryMinus
}

func (e *Engine) accumulateMemory(fn func(x, y Number) Number) {
	if e.pending != nil {
		e.resolvePending()
	}
	if !e.value.IsNaN() {
		e.memory = fn(e.memory, e.value)
		e.memoryChanged = true
	}
	e.finishEntry()
}

func (e *Engine) MemoryRecall() {
	e.value = e.memory
	e.finishEntry()
	e.lastKey = KeyMemoryRecall
}

func (e *Engine) MemoryClear() {
	e.memory = Zero()
	e.lastKey = KeyMemoryClear
}

// GrandTotalRecall shows GT. In Non-K mode a second GT press in a row
// clears the register first.
func (e *Engine) GrandTotalRecall() {
	if e.settings.Mode == ModeNonK && e.lastKey == KeyGrandTotal {
		e.grandTotal = Zero()
		e.logger.Printf("calc: GT cleared by double tap")
	}
	e.value = e.grandTotal
	e.finishEntry()
	e.lastKey = KeyGrandTotal
}

func (e *Engine) GrandTotalClear() {
	e.grandTotal = Zero()
	e.lastKey = KeyGrandTotalClear
}

func (e *Engine) addGrandTotal(result Number) {
	if result.IsNaN() {
		return
	}
	e.grandTotal = e.arith.Add(e.grandTotal, result)
	e.grandTotalChanged = true
}

// TaxPlus adds the configured tax to the display value.
func (e *Engine) TaxPlus() {
	e.value = e.arith.Scale(e.value, e.settings.TaxRate)
	e.finishEntry()
	e.lastKey = KeyTaxPlus
}

// TaxMinus removes the configured tax from a tax-inclusive value.
func (e *Engine) TaxMinus() {
	e.value = e.arith.Unscale(e.value, e.settings.TaxRate)
	e.finishEntry()
	e.lastKey = KeyTaxMinus
}

func (e *Engine) SquareRoot() {
	e.value = e.arith.Sqrt(e.value)
	e.finishEntry()
	e.lastKey = KeySqrt
}
