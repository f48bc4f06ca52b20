package calc

import "strings"

// InputDigit appends a digit or the decimal point to the entry buffer.
// Other keys are ignored.
func (e *Engine) InputDigit(k Key) {
	c, ok := k.digit()
	if !ok {
		return
	}
	if !e.entering {
		e.buffer = ""
		e.entering = true
	}
	e.lastKey = k

	if c == '.' && strings.Contains(e.buffer, ".") {
		return
	}
	if countDigits(e.buffer) >= e.settings.Precision {
		return
	}

	var next string
	switch {
	case c == '.' && (e.buffer == "" || e.buffer == "-"):
		next = e.buffer + "0."
	case c != '.' && e.buffer == "0":
		next = string(c)
	case c != '.' && e.buffer == "-0":
		next = "-" + string(c)
	default:
		next = e.buffer + string(c)
	}

	v, err := parseEntry(next)
	if err != nil {
		e.logger.Printf("calc: discard key %q: %v", k, err)
		return
	}
	e.buffer = next
	e.value = v
}

// Backspace removes the last entered character. It only acts while a
// number is being entered.
func (e *Engine) Backspace() {
	e.lastKey = KeyBackspace
	if !e.entering || e.buffer == "" {
		return
	}
	next := e.buffer[:len(e.buffer)-1]
	if next == "" || next == "-" || next == "-0" {
		next = "0"
	}
	v, err := parseEntry(next)
	if err != nil {
		e.logger.Printf("calc: discard backspace on %q: %v", e.buffer, err)
		return
	}
	e.buffer = next
	e.value = v
}

// ChangeSign negates the display value and the entry buffer, if any.
func (e *Engine) ChangeSign() {
	e.lastKey = KeySign
	e.value = e.value.Neg()
	if !e.entering || e.buffer == "" {
		return
	}
	if strings.HasPrefix(e.buffer, "-") {
		e.buffer = e.buffer[1:]
	} else {
		e.buffer = "-" + e.buffer
	}
}
