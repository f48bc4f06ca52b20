// Package calc emulates the arithmetic of a desk calculator: fixed
// significant-digit decimal arithmetic, K-type and Non-K constant
// calculation, percent chains, the M and GT registers and tax keys.
//
// An Engine is a single mutable session. It is not safe for concurrent use;
// callers deliver one key at a time.
package calc

import (
	"io"
	"log"
)

// pendingOp is the single outstanding binary operation.
type pendingOp struct {
	operand Number
	op      Op
}

// constant is the operator/operand pair replayed by repeated "=". A
// percent constant comes from a Non-K percent key and replays the
// markup, discount or ratio formula instead of the plain operator.
type constant struct {
	op      Op
	percent bool
	value   Number
}

func (c constant) set() bool {
	return c.op != opNone
}

// Readout is what a caller shows after each key.
type Readout struct {
	Display string
	Status  string
	// Entering is true while Display is the raw entry buffer.
	Entering bool
	// Error is true when Display shows the NaN token.
	Error bool
	// Constant is the K indicator: a double-tapped constant is armed.
	Constant   bool
	Memory     bool
	GrandTotal bool
	// MemoryChanged and GrandTotalChanged are set once per register update
	// and cleared by Readout.
	MemoryChanged     bool
	GrandTotalChanged bool
}

type Engine struct {
	settings Settings
	arith    Arith
	format   Formatter
	logger   *log.Logger

	value    Number
	buffer   string
	entering bool
	pending  *pendingOp
	constant constant
	kArmed   bool

	percentBase   *Number
	lastPercentOp Op
	lastKey       Key

	memory            Number
	grandTotal        Number
	memoryChanged     bool
	grandTotalChanged bool
}

// New returns an engine in its power-on state. A nil logger discards traces.
func New(settings Settings, logger *log.Logger) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	e := &Engine{
		settings: settings,
		arith:    NewArith(settings.Precision),
		logger:   logger,
	}
	e.refreshFormatter()
	e.AllClear()
	return e, nil
}

func NewDefault() *Engine {
	e, err := New(DefaultSettings(), nil)
	if err != nil {
		panic(err)
	}
	return e
}

// Press applies one command token such as "7", "×", "=" or "M+".
func (e *Engine) Press(token string) error {
	k, err := ParseKey(token)
	if err != nil {
		return err
	}
	e.Apply(k)
	return nil
}

// Apply processes one key to completion.
func (e *Engine) Apply(k Key) {
	switch k {
	case Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9, KeyPoint:
		e.InputDigit(k)
	case KeyDoubleZero:
		e.InputDigit(Key0)
		e.InputDigit(Key0)
	case KeyAdd, KeySub, KeyMul, KeyDiv:
		op, _ := k.Op()
		e.SetOperator(op)
	case KeyEquals:
		e.Equals()
	case KeyClear:
		e.Clear()
	case KeyAllClear:
		e.AllClear()
	case KeyBackspace:
		e.Backspace()
	case KeySign:
		e.ChangeSign()
	case KeyPercent:
		e.Percent()
	case KeySqrt:
		e.SquareRoot()
	case KeyMemoryPlus:
		e.MemoryPlus()
	case KeyMemoryMinus:
		e.MemoryMinus()
	case KeyMemoryRecall:
		e.MemoryRecall()
	case KeyMemoryClear:
		e.MemoryClear()
	case KeyGrandTotal:
		e.GrandTotalRecall()
	case KeyGrandTotalClear:
		e.GrandTotalClear()
	case KeyTaxPlus:
		e.TaxPlus()
	case KeyTaxMinus:
		e.TaxMinus()
	case KeyNone, keyCount:
	}
}

// Clear resets the entry, the display and the pending operation. Registers
// and configuration survive.
func (e *Engine) Clear() {
	e.buffer = ""
	e.value = Zero()
	e.entering = true
	e.pending = nil
	e.lastKey = KeyClear
}

// AllClear resets the whole session, registers included. Configuration
// survives.
func (e *Engine) AllClear() {
	e.value = Zero()
	e.buffer = ""
	e.entering = true
	e.pending = nil
	e.constant = constant{}
	e.kArmed = false
	e.percentBase = nil
	e.lastPercentOp = opNone
	e.memory = Zero()
	e.grandTotal = Zero()
	e.memoryChanged = false
	e.grandTotalChanged = false
	e.lastKey = KeyAllClear
}

// DisplayText is the main display: the raw buffer while a number is being
// entered, the formatted value otherwise.
func (e *Engine) DisplayText() string {
	if e.entering && e.buffer != "" {
		return e.buffer
	}
	return e.format.Format(e.value)
}

// StatusText describes the pending operation, e.g. "100 +".
func (e *Engine) StatusText() string {
	if e.pending == nil {
		return ""
	}
	return e.format.Format(e.pending.operand) + " " + e.pending.op.String()
}

// Readout snapshots the display state and consumes the changed flags.
func (e *Engine) Readout() Readout {
	r := Readout{
		Display:           e.DisplayText(),
		Status:            e.StatusText(),
		Entering:          e.entering && e.buffer != "",
		Error:             !(e.entering && e.buffer != "") && e.value.IsNaN(),
		Constant:          e.kArmed,
		Memory:            !e.memory.IsZero(),
		GrandTotal:        !e.grandTotal.IsZero(),
		MemoryChanged:     e.memoryChanged,
		GrandTotalChanged: e.grandTotalChanged,
	}
	e.memoryChanged = false
	e.grandTotalChanged = false
	return r
}

// Value is the current display value.
func (e *Engine) Value() Number {
	return e.value
}

func (e *Engine) Memory() Number {
	return e.memory
}

func (e *Engine) GrandTotal() Number {
	return e.grandTotal
}

// Entering reports whether digit keys extend the current entry.
func (e *Engine) Entering() bool {
	return e.entering
}

// finishEntry ends number entry; the next digit starts a fresh buffer.
func (e *Engine) finishEntry() {
	e.entering = false
	e.buffer = ""
}
