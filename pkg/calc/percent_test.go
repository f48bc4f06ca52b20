package calc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		keys    string
		display string
		gt      string
	}{
		{name: "plain", keys: "5 0 %", display: "0.5", gt: "0"},
		{name: "plain repeated", keys: "5 0 % %", display: "0.5", gt: "0"},
		{name: "markup", keys: "1 0 0 + 1 0 %", display: "110", gt: "110"},
		{name: "markup repeated", keys: "1 0 0 + 1 0 % %", display: "110", gt: "110"},
		{name: "markup delta", keys: "1 0 0 + 1 0 % =", display: "10", gt: "110"},
		{name: "markup delta then constant", keys: "1 0 0 + 1 0 % = =", display: "110", gt: "220"},
		{name: "discount", keys: "2 0 0 - 1 0 %", display: "180", gt: "180"},
		{name: "discount delta", keys: "2 0 0 - 1 0 % =", display: "-20", gt: "180"},
		{name: "discount chain", keys: "2 0 0 - 1 0 % 5 0 %", display: "100", gt: "280"},
		{name: "percent of", keys: "2 0 0 × 1 5 %", display: "30", gt: "30"},
		{name: "percent of chain", keys: "2 0 0 × 1 5 % 5 0 %", display: "100", gt: "130"},
		{name: "percent of after equals", keys: "2 × 3 = 5 0 %", display: "1", gt: "7"},
		{name: "ratio", keys: "5 0 ÷ 2 0 0 %", display: "25", gt: "25"},
		{name: "ratio chain", keys: "5 0 ÷ 2 0 0 % 1 0 0 %", display: "50", gt: "75"},
		{name: "ratio by zero", keys: "5 ÷ 0 %", display: "NaN", gt: "0"},
		{name: "new entry after percent", keys: "1 0 0 + 1 0 % 5", display: "5", gt: "110"},

		{name: "k plain", mode: ModeK, keys: "5 0 %", display: "0.5", gt: "0"},
		{name: "k percent of", mode: ModeK, keys: "2 0 0 × 1 0 %", display: "20", gt: "0"},
		{name: "k percent of added", mode: ModeK, keys: "2 0 0 × 1 0 % +", display: "220", gt: "0"},
		{name: "k percent of subtracted", mode: ModeK, keys: "2 0 0 × 1 0 % -", display: "180", gt: "0"},
		{name: "k percent of equals", mode: ModeK, keys: "2 0 0 × 1 0 % + =", display: "220", gt: "220"},
		{name: "k ratio", mode: ModeK, keys: "5 0 ÷ 2 0 0 %", display: "25", gt: "0"},
		{name: "k markup", mode: ModeK, keys: "1 0 0 + 2 0 %", display: "125", gt: "0"},
		{name: "k markup repeated", mode: ModeK, keys: "1 0 0 + 2 0 % %", display: "125", gt: "0"},
		{name: "k markup profit", mode: ModeK, keys: "1 0 0 + 2 0 % -", display: "25", gt: "0"},
		{name: "k markup plus keeps price", mode: ModeK, keys: "1 0 0 + 2 0 % +", display: "125", gt: "0"},
		{name: "k markup of 100 percent", mode: ModeK, keys: "5 0 + 1 0 0 %", display: "NaN", gt: "0"},
		{name: "k margin", mode: ModeK, keys: "1 2 0 - 1 0 0 %", display: "20", gt: "0"},
		{name: "k margin zero base", mode: ModeK, keys: "5 0 - 0 %", display: "NaN", gt: "0"},
		{name: "k armed minus margin", mode: ModeK, keys: "1 0 0 - - 1 2 0 %", display: "20", gt: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.mode)
			press(t, e, tt.keys)
			require.Equal(t, tt.display, e.DisplayText())
			requireNumber(t, tt.gt, e.GrandTotal())
		})
	}
}

func TestPercent_BaseIsOneShot(t *testing.T) {
	t.Run("consumed by operator", func(t *testing.T) {
		e := newEngine(t, ModeK)
		press(t, e, "2 0 0 × 1 0 %")
		require.NotNil(t, e.percentBase)

		press(t, e, "+")
		require.Nil(t, e.percentBase)
		require.Nil(t, e.pending)

		press(t, e, "5 +")
		require.Equal(t, "5 +", e.StatusText())
	})

	t.Run("cleared by equals", func(t *testing.T) {
		e := newEngine(t, ModeK)
		press(t, e, "2 0 0 × 1 0 % =")
		require.Nil(t, e.percentBase)
		require.Equal(t, "20", e.DisplayText())

		press(t, e, "+")
		require.Equal(t, "20 +", e.StatusText())
	})

	t.Run("non-k delta shown once", func(t *testing.T) {
		e := newEngine(t, ModeNonK)
		press(t, e, "1 0 0 + 1 0 % =")
		require.Nil(t, e.percentBase)
		require.Equal(t, OpAdd, e.constant.op)
		requireNumber(t, "100", e.constant.value)
		require.False(t, e.constant.percent)
	})
}

func TestPercent_MarkupAddsGrandTotalOnce(t *testing.T) {
	e := NewDefault()
	press(t, e, "1 0 0 + 1 0 %")
	require.True(t, e.Readout().GrandTotalChanged)

	press(t, e, "=")
	require.False(t, e.Readout().GrandTotalChanged)
	requireNumber(t, "110", e.GrandTotal())
}
