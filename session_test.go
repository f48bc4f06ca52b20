package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

func newTestSession(t *testing.T, config SessionConfig) *Session {
	t.Helper()
	s, err := NewSession("default", calc.DefaultSettings(), config, nil)
	require.NoError(t, err)
	return s
}

func TestSession_Press(t *testing.T) {
	s := newTestSession(t, SessionConfig{})
	require.NotEmpty(t, s.ID)

	var r calc.Readout
	var err error
	for _, token := range []string{"1", "2", "+", "3", "M+"} {
		r, err = s.Press(token)
		require.NoError(t, err)
	}
	require.Equal(t, "15", r.Display)
	require.True(t, r.Memory)
	require.True(t, r.MemoryChanged)

	r = s.Readout()
	require.False(t, r.MemoryChanged)

	_, err = s.Press("sin")
	require.ErrorIs(t, err, calc.ErrUnknownKey)
}

func TestSession_Throttle(t *testing.T) {
	s := newTestSession(t, SessionConfig{PressRate: 0.001, PressBurst: 1})

	_, err := s.Press("1")
	require.NoError(t, err)
	_, err = s.Press("2")
	require.ErrorIs(t, err, ErrThrottled)
	require.Equal(t, "1", s.Readout().Display)
}

func TestSession_Configure(t *testing.T) {
	s := newTestSession(t, SessionConfig{})

	_, err := s.Press("5")
	require.NoError(t, err)
	settings, err := s.Configure("mode", "K")
	require.NoError(t, err)
	require.Equal(t, calc.ModeK, settings.Mode)
	require.Equal(t, "0", s.Readout().Display, "switching mode clears the calculator")

	settings, err = s.Configure("precision", "14")
	require.NoError(t, err)
	require.Equal(t, 14, settings.Precision)

	settings, err = s.Configure("rounding", "5/4")
	require.NoError(t, err)
	require.Equal(t, calc.RoundHalfUp, settings.Rounding)

	settings, err = s.Configure("places", "Add2")
	require.NoError(t, err)
	require.Equal(t, calc.PlacesAdd2, settings.Places)

	settings, err = s.Configure("tax", "8.5")
	require.NoError(t, err)
	require.True(t, settings.TaxRate.Equal(calc.MustParse("8.5")))

	_, err = s.Press("5")
	require.NoError(t, err)
	r := s.Readout()
	require.Equal(t, "5", r.Display)
}

func TestSession_ConfigureErrors(t *testing.T) {
	s := newTestSession(t, SessionConfig{})

	tests := []struct {
		name  string
		value string
		err   error
	}{
		{"precision", "abc", calc.ErrInvalidPrecision},
		{"precision", "0", calc.ErrInvalidPrecision},
		{"rounding", "up", calc.ErrInvalidRounding},
		{"places", "9", calc.ErrInvalidPlaces},
		{"mode", "Q", calc.ErrInvalidMode},
		{"tax", "-3", calc.ErrInvalidTaxRate},
		{"tax", "x", calc.ErrInvalidTaxRate},
		{"tax", " ", ErrMissingValue},
		{"colour", "red", ErrUnknownSetting},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			settings, err := s.Configure(tt.name, tt.value)
			require.ErrorIs(t, err, tt.err)
			require.Equal(t, calc.DefaultSettings().Precision, settings.Precision)
		})
	}
}
