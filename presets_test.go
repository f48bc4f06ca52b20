package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

const presetsYAML = `
default: office
presets:
  office:
    mode: K
    rounding: "5/4"
    places: "2"
    tax_rate: "8"
  Science:
    precision: 14
`

func TestParsePresets(t *testing.T) {
	presets, err := ParsePresets([]byte(presetsYAML), calc.DefaultSettings())
	require.NoError(t, err)
	require.Equal(t, []string{"default", "office", "science"}, presets.Names())

	name, office, err := presets.Lookup("")
	require.NoError(t, err)
	require.Equal(t, "office", name)
	require.Equal(t, calc.ModeK, office.Mode)
	require.Equal(t, calc.RoundHalfUp, office.Rounding)
	require.Equal(t, calc.Places(2), office.Places)
	require.Equal(t, 12, office.Precision)
	require.True(t, office.TaxRate.Equal(calc.NewInt(8)))

	name, science, err := presets.Lookup(" SCIENCE ")
	require.NoError(t, err)
	require.Equal(t, "science", name)
	require.Equal(t, 14, science.Precision)
	require.Equal(t, calc.ModeNonK, science.Mode)
	require.True(t, science.TaxRate.Equal(calc.NewInt(10)))

	_, def, err := presets.Lookup("default")
	require.NoError(t, err)
	require.Equal(t, calc.DefaultSettings().Precision, def.Precision)

	_, _, err = presets.Lookup("missing")
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestParsePresets_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"precision", "presets:\n  p:\n    precision: 40\n", calc.ErrInvalidPrecision},
		{"mode", "presets:\n  p:\n    mode: Z\n", calc.ErrInvalidMode},
		{"rounding", "presets:\n  p:\n    rounding: up\n", calc.ErrInvalidRounding},
		{"places", "presets:\n  p:\n    places: \"7\"\n", calc.ErrInvalidPlaces},
		{"tax", "presets:\n  p:\n    tax_rate: \"-1\"\n", calc.ErrInvalidTaxRate},
		{"tax text", "presets:\n  p:\n    tax_rate: lots\n", calc.ErrInvalidTaxRate},
		{"default", "default: p\n", ErrUnknownPreset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePresets([]byte(tt.yaml), calc.DefaultSettings())
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := ParsePresets([]byte("presets: [1, 2"), calc.DefaultSettings())
	require.Error(t, err)
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets("", calc.DefaultSettings())
	require.NoError(t, err)
	require.Equal(t, []string{"default"}, presets.Names())

	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(presetsYAML), 0o600))

	presets, err = LoadPresets(path, calc.DefaultSettings())
	require.NoError(t, err)
	name, _, err := presets.Lookup("")
	require.NoError(t, err)
	require.Equal(t, "office", name)

	_, err = LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"), calc.DefaultSettings())
	require.ErrorIs(t, err, os.ErrNotExist)
}
