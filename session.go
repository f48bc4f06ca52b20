package main

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

var (
	ErrThrottled      = errors.New("too many key presses")
	ErrUnknownSetting = errors.New("unknown setting")
	ErrMissingValue   = errors.New("missing setting value")
)

// Session is one user's calculator. Telegram may deliver callbacks for the
// same message concurrently, so every engine access goes through mu.
type Session struct {
	ID     string
	Preset string

	mu      sync.Mutex
	engine  *calc.Engine
	limiter *rate.Limiter
}

type SessionConfig struct {
	PressRate  float64
	PressBurst int
}

func NewSession(preset string, settings calc.Settings, config SessionConfig, logger *log.Logger) (*Session, error) {
	engine, err := calc.New(settings, logger)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if config.PressRate > 0 {
		limit = rate.Limit(config.PressRate)
	}
	burst := config.PressBurst
	if burst < 1 {
		burst = 1
	}

	return &Session{
		ID:      uuid.NewString(),
		Preset:  preset,
		engine:  engine,
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

// Press delivers one key token and returns the resulting readout.
func (s *Session) Press(token string) (calc.Readout, error) {
	if !s.limiter.Allow() {
		return calc.Readout{}, ErrThrottled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Press(token); err != nil {
		return calc.Readout{}, err
	}
	return s.engine.Readout(), nil
}

// Configure applies a named setting such as "precision 14" or "mode k".
func (s *Session) Configure(name, value string) (calc.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := applySetting(s.engine, name, value); err != nil {
		return s.engine.Settings(), err
	}
	return s.engine.Settings(), nil
}

func (s *Session) Readout() calc.Readout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Readout()
}

func (s *Session) Settings() calc.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Settings()
}

func applySetting(engine *calc.Engine, name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: %s", ErrMissingValue, name)
	}

	switch name {
	case "mode":
		mode, err := calc.ParseMode(value)
		if err != nil {
			return err
		}
		return engine.SetMode(mode)
	case "precision":
		digits, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %q", calc.ErrInvalidPrecision, value)
		}
		return engine.SetPrecision(digits)
	case "rounding":
		rounding, err := calc.ParseRounding(value)
		if err != nil {
			return err
		}
		return engine.SetRounding(rounding)
	case "places":
		places, err := calc.ParsePlaces(value)
		if err != nil {
			return err
		}
		return engine.SetPlaces(places)
	case "tax":
		taxRate, err := calc.ParseNumber(value)
		if err != nil {
			return fmt.Errorf("%w: %q", calc.ErrInvalidTaxRate, value)
		}
		return engine.SetTaxRate(taxRate)
	}
	return fmt.Errorf("%w: %q", ErrUnknownSetting, name)
}
