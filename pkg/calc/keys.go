package calc

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnknownKey       = errors.New("unknown key")
	ErrInvalidPrecision = errors.New("invalid precision")
	ErrInvalidRounding  = errors.New("invalid rounding mode")
	ErrInvalidPlaces    = errors.New("invalid decimal places")
	ErrInvalidMode      = errors.New("invalid calc mode")
	ErrInvalidTaxRate   = errors.New("invalid tax rate")
)

// Key is a command token of the calculator keyboard.
type Key uint8

const (
	KeyNone Key = iota
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyPoint
	KeyDoubleZero
	KeyAdd
	KeySub
	KeyMul
	KeyDiv
	KeyEquals
	KeyClear
	KeyAllClear
	KeyBackspace
	KeySign
	KeyPercent
	KeySqrt
	KeyMemoryPlus
	KeyMemoryMinus
	KeyMemoryRecall
	KeyMemoryClear
	KeyGrandTotal
	KeyGrandTotalClear
	KeyTaxPlus
	KeyTaxMinus
	keyCount
)

var keyTokens = [keyCount]string{
	KeyNone:            "",
	Key0:               "0",
	Key1:               "1",
	Key2:               "2",
	Key3:               "3",
	Key4:               "4",
	Key5:               "5",
	Key6:               "6",
	Key7:               "7",
	Key8:               "8",
	Key9:               "9",
	KeyPoint:           ".",
	KeyDoubleZero:      "00",
	KeyAdd:             "+",
	KeySub:             "-",
	KeyMul:             "×",
	KeyDiv:             "÷",
	KeyEquals:          "=",
	KeyClear:           "C",
	KeyAllClear:        "AC",
	KeyBackspace:       "▶",
	KeySign:            "+/-",
	KeyPercent:         "%",
	KeySqrt:            "√",
	KeyMemoryPlus:      "M+",
	KeyMemoryMinus:     "M-",
	KeyMemoryRecall:    "MR",
	KeyMemoryClear:     "MC",
	KeyGrandTotal:      "GT",
	KeyGrandTotalClear: "GTC",
	KeyTaxPlus:         "TAX+",
	KeyTaxMinus:        "TAX-",
}

// keyAliases are ASCII spellings accepted from callers that cannot send
// the keyboard glyphs.
var keyAliases = map[string]Key{
	"*":    KeyMul,
	"x":    KeyMul,
	"/":    KeyDiv,
	"<":    KeyBackspace,
	"±":    KeySign,
	"sqrt": KeySqrt,
}

var keysByToken = func() map[string]Key {
	m := make(map[string]Key, len(keyTokens)+len(keyAliases))
	for k := Key0; k < keyCount; k++ {
		m[keyTokens[k]] = k
	}
	for token, k := range keyAliases {
		m[token] = k
	}
	return m
}()

func ParseKey(token string) (Key, error) {
	if k, ok := keysByToken[token]; ok {
		return k, nil
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, token)
}

func (k Key) String() string {
	if k < keyCount {
		return keyTokens[k]
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

// digit reports the buffer character produced by a digit or point key.
func (k Key) digit() (byte, bool) {
	switch {
	case k >= Key0 && k <= Key9:
		return byte('0' + k - Key0), true
	case k == KeyPoint:
		return '.', true
	}
	return 0, false
}

// Op returns the binary operator of an operator key.
func (k Key) Op() (Op, bool) {
	switch k {
	case KeyAdd:
		return OpAdd, true
	case KeySub:
		return OpSub, true
	case KeyMul:
		return OpMul, true
	case KeyDiv:
		return OpDiv, true
	}
	return opNone, false
}

// Op is a binary operator.
type Op uint8

const (
	opNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	case opNone:
		return ""
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

func (o Op) Key() Key {
	switch o {
	case OpAdd:
		return KeyAdd
	case OpSub:
		return KeySub
	case OpMul:
		return KeyMul
	case OpDiv:
		return KeyDiv
	}
	return KeyNone
}

// Mode selects how constants are remembered for repeated "=".
type Mode uint8

const (
	// ModeNonK derives the constant from the last completed operation.
	ModeNonK Mode = iota
	// ModeK arms a constant only when an operator is pressed twice.
	ModeK
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "NON_K", "non-k", "nonk", "NonK":
		return ModeNonK, nil
	case "K", "k":
		return ModeK, nil
	}
	return ModeNonK, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) String() string {
	switch m {
	case ModeNonK:
		return "NON_K"
	case ModeK:
		return "K"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Rounding selects how finalized values are rendered.
type Rounding uint8

const (
	// RoundTruncate ("F") shows every significant digit that fits.
	RoundTruncate Rounding = iota
	// RoundFloor ("Cut") drops digits beyond the decimal places setting.
	RoundFloor
	// RoundHalfUp ("5/4") rounds half away from zero at the decimal places setting.
	RoundHalfUp
)

func ParseRounding(s string) (Rounding, error) {
	switch s {
	case "F", "f":
		return RoundTruncate, nil
	case "Cut", "CUT", "cut":
		return RoundFloor, nil
	case "5/4", "5-4", "54":
		return RoundHalfUp, nil
	}
	return RoundTruncate, fmt.Errorf("%w: %q", ErrInvalidRounding, s)
}

func (r Rounding) String() string {
	switch r {
	case RoundTruncate:
		return "F"
	case RoundFloor:
		return "Cut"
	case RoundHalfUp:
		return "5/4"
	}
	return "Rounding(" + strconv.Itoa(int(r)) + ")"
}

func (r *Rounding) UnmarshalText(text []byte) error {
	v, err := ParseRounding(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Places is the decimal places setting used by the Cut and 5/4 roundings.
type Places int8

// PlacesAdd2 is the "Add2" switch position; it renders two places.
const PlacesAdd2 Places = -1

const maxPlaces = 4

func ParsePlaces(s string) (Places, error) {
	if s == "Add2" || s == "ADD2" || s == "add2" {
		return PlacesAdd2, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > maxPlaces {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlaces, s)
	}
	return Places(n), nil
}

func (p Places) Digits() int {
	if p == PlacesAdd2 {
		return 2
	}
	return int(p)
}

func (p Places) valid() bool {
	return p == PlacesAdd2 || (p >= 0 && p <= maxPlaces)
}

func (p Places) String() string {
	if p == PlacesAdd2 {
		return "Add2"
	}
	return strconv.Itoa(int(p))
}

func (p *Places) UnmarshalText(text []byte) error {
	v, err := ParsePlaces(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
