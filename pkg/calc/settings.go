package calc

import "fmt"

// Settings is the configuration that survives all-clear.
type Settings struct {
	Mode      Mode
	Rounding  Rounding
	Places    Places
	Precision int
	TaxRate   Number
}

func DefaultSettings() Settings {
	return Settings{
		Mode:      ModeNonK,
		Rounding:  RoundTruncate,
		Places:    4,
		Precision: 12,
		TaxRate:   NewInt(10),
	}
}

func (s Settings) Validate() error {
	if err := validatePrecision(s.Precision); err != nil {
		return err
	}
	if s.Mode != ModeNonK && s.Mode != ModeK {
		return fmt.Errorf("%w: %v", ErrInvalidMode, s.Mode)
	}
	if s.Rounding > RoundHalfUp {
		return fmt.Errorf("%w: %v", ErrInvalidRounding, s.Rounding)
	}
	if !s.Places.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidPlaces, s.Places)
	}
	return validateTaxRate(s.TaxRate)
}

func validatePrecision(digits int) error {
	if digits < 1 || digits > MaxPrecision {
		return fmt.Errorf("%w: %d digits, want 1..%d", ErrInvalidPrecision, digits, MaxPrecision)
	}
	return nil
}

func validateTaxRate(rate Number) error {
	if rate.IsNaN() || rate.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTaxRate, rate)
	}
	return nil
}

// Settings returns the current configuration.
func (e *Engine) Settings() Settings {
	return e.settings
}

// SetPrecision changes the significant-digit limit used for arithmetic,
// entry length and display. An entry longer than the new limit is cut.
func (e *Engine) SetPrecision(digits int) error {
	if err := validatePrecision(digits); err != nil {
		return err
	}
	e.settings.Precision = digits
	e.arith = NewArith(digits)
	e.refreshFormatter()

	if e.entering && countDigits(e.buffer) > digits {
		e.buffer = truncateDigits(e.buffer, digits)
		if v, err := parseEntry(e.buffer); err == nil {
			e.value = v
		}
	}
	return nil
}

func (e *Engine) SetRounding(r Rounding) error {
	if r > RoundHalfUp {
		return fmt.Errorf("%w: %v", ErrInvalidRounding, r)
	}
	e.settings.Rounding = r
	e.refreshFormatter()
	return nil
}

func (e *Engine) SetPlaces(p Places) error {
	if !p.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidPlaces, p)
	}
	e.settings.Places = p
	e.refreshFormatter()
	return nil
}

// SetMode switches the constant-calculation family. Switching performs an
// all-clear so no constant from the other family survives.
func (e *Engine) SetMode(m Mode) error {
	if m != ModeNonK && m != ModeK {
		return fmt.Errorf("%w: %v", ErrInvalidMode, m)
	}
	e.AllClear()
	e.settings.Mode = m
	return nil
}

func (e *Engine) SetTaxRate(rate Number) error {
	if err := validateTaxRate(rate); err != nil {
		return err
	}
	e.settings.TaxRate = rate
	return nil
}

func (e *Engine) refreshFormatter() {
	e.format = NewFormatter(e.settings.Precision, e.settings.Rounding, e.settings.Places)
}
