package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"123", "123"},
		{"1234", "1,234"},
		{"100000", "100,000"},
		{"1234567.891", "1,234,567.891"},
		{"-1234567", "-1,234,567"},
		{"-12.5", "-12.5"},
		{"0.0001", "0.0001"},
		{"NaN", "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, groupDigits(tt.in))
		})
	}
}

func TestRenderReadout(t *testing.T) {
	settings := calc.DefaultSettings()

	t.Run("finalized value is grouped", func(t *testing.T) {
		got := renderReadout(calc.Readout{
			Display:  "1234567.5",
			Status:   "100 +",
			Constant: true,
			Memory:   true,
		}, settings)
		require.Equal(t, "K M [NON_K 12 F 4]\n100 +\n1,234,567.5", got)
	})

	t.Run("entry is shown raw", func(t *testing.T) {
		got := renderReadout(calc.Readout{Display: "12345", Entering: true}, settings)
		require.Equal(t, "[NON_K 12 F 4]\n12345", got)
	})

	t.Run("error", func(t *testing.T) {
		got := renderReadout(calc.Readout{Display: "NaN", Error: true, GrandTotal: true}, settings)
		require.Equal(t, "GT [NON_K 12 F 4]\nNaN", got)
	})
}

func TestRenderReadout_FromEngine(t *testing.T) {
	e := calc.NewDefault()
	for _, token := range []string{"1", "2", "3", "4", "+", "1", "="} {
		require.NoError(t, e.Press(token))
	}
	require.Equal(t, "GT [NON_K 12 F 4]\n1,235", renderReadout(e.Readout(), e.Settings()))
}

func TestFeedback(t *testing.T) {
	require.Equal(t, "", feedback(calc.Readout{}))
	require.Equal(t, "M updated", feedback(calc.Readout{MemoryChanged: true}))
	require.Equal(t, "GT updated", feedback(calc.Readout{GrandTotalChanged: true}))
	require.Equal(t, "M and GT updated", feedback(calc.Readout{MemoryChanged: true, GrandTotalChanged: true}))
}

func TestDescribeSettings(t *testing.T) {
	got := describeSettings(calc.DefaultSettings())
	require.Contains(t, got, "mode: NON_K")
	require.Contains(t, got, "precision: 12")
	require.Contains(t, got, "rounding: F")
	require.Contains(t, got, "tax: 10%")
}
