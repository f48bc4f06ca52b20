package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

const defaultPreset = "default"

var ErrUnknownPreset = errors.New("unknown preset")

// presetsFile is the on-disk layout:
//
//	default: office
//	presets:
//	  office:
//	    mode: K
//	    precision: 12
//	    rounding: "5/4"
//	    places: "2"
//	    tax_rate: "8"
type presetsFile struct {
	Default string                  `yaml:"default"`
	Presets map[string]presetConfig `yaml:"presets"`
}

// presetConfig holds the UI labels; empty fields keep the base settings.
type presetConfig struct {
	Mode      string `yaml:"mode"`
	Precision int    `yaml:"precision"`
	Rounding  string `yaml:"rounding"`
	Places    string `yaml:"places"`
	TaxRate   string `yaml:"tax_rate"`
}

// Presets maps a preset name to validated engine settings.
type Presets struct {
	fallback string
	settings map[string]calc.Settings
}

// NewPresets returns the built-in "default" preset only.
func NewPresets(base calc.Settings) Presets {
	return Presets{
		fallback: defaultPreset,
		settings: map[string]calc.Settings{defaultPreset: base},
	}
}

// LoadPresets reads a YAML presets file. An empty path yields the built-in
// preset.
func LoadPresets(path string, base calc.Settings) (Presets, error) {
	if path == "" {
		return NewPresets(base), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Presets{}, fmt.Errorf("read presets: %w", err)
	}
	return ParsePresets(data, base)
}

func ParsePresets(data []byte, base calc.Settings) (Presets, error) {
	var file presetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Presets{}, fmt.Errorf("decode presets: %w", err)
	}

	presets := NewPresets(base)
	for name, config := range file.Presets {
		name = strings.ToLower(strings.TrimSpace(name))
		settings, err := config.apply(base)
		if err != nil {
			return Presets{}, fmt.Errorf("preset %q: %w", name, err)
		}
		presets.settings[name] = settings
	}

	if file.Default != "" {
		fallback := strings.ToLower(file.Default)
		if _, ok := presets.settings[fallback]; !ok {
			return Presets{}, fmt.Errorf("default %w: %q", ErrUnknownPreset, file.Default)
		}
		presets.fallback = fallback
	}
	return presets, nil
}

func (c presetConfig) apply(base calc.Settings) (calc.Settings, error) {
	settings := base
	if c.Mode != "" {
		mode, err := calc.ParseMode(c.Mode)
		if err != nil {
			return settings, err
		}
		settings.Mode = mode
	}
	if c.Precision != 0 {
		settings.Precision = c.Precision
	}
	if c.Rounding != "" {
		rounding, err := calc.ParseRounding(c.Rounding)
		if err != nil {
			return settings, err
		}
		settings.Rounding = rounding
	}
	if c.Places != "" {
		places, err := calc.ParsePlaces(c.Places)
		if err != nil {
			return settings, err
		}
		settings.Places = places
	}
	if c.TaxRate != "" {
		taxRate, err := calc.ParseNumber(c.TaxRate)
		if err != nil {
			return settings, fmt.Errorf("%w: %q", calc.ErrInvalidTaxRate, c.TaxRate)
		}
		settings.TaxRate = taxRate
	}
	return settings, settings.Validate()
}

// Lookup resolves a preset name; the empty name selects the default.
func (p Presets) Lookup(name string) (string, calc.Settings, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = p.fallback
	}

	settings, ok := p.settings[name]
	if !ok {
		return name, calc.Settings{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return name, settings, nil
}

func (p Presets) Names() []string {
	names := make([]string, 0, len(p.settings))
	for name := range p.settings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
