package calc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	require.True(t, Zero().IsZero())
	require.Equal(t, "0", Zero().String())
	require.True(t, NaN().IsNaN())
	require.Equal(t, "NaN", NaN().String())
	require.True(t, NaN().Neg().IsNaN())
	require.Equal(t, "-2.5", MustParse("2.5").Neg().String())
	require.Equal(t, "0", Zero().Neg().String())

	require.Equal(t, -1, MustParse("1").Cmp(MustParse("2")))
	require.Equal(t, 1, NaN().Cmp(MustParse("2")))
	require.True(t, NaN().Equal(NaN()))
	require.False(t, NaN().Equal(Zero()))
	require.True(t, MustParse("1.50").Equal(MustParse("1.5")))

	_, err := ParseNumber("1,5")
	require.Error(t, err)
}

func TestNumber_UnmarshalText(t *testing.T) {
	var n Number
	require.NoError(t, n.UnmarshalText([]byte(" 8.5 ")))
	requireNumber(t, "8.5", n)
	require.Error(t, n.UnmarshalText([]byte("eight")))
}

func TestParseEntry(t *testing.T) {
	n, err := parseEntry("12.")
	require.NoError(t, err)
	requireNumber(t, "12", n)

	_, err = parseEntry("-")
	require.Error(t, err)
	_, err = parseEntry(".")
	require.Error(t, err)
}

func TestArith(t *testing.T) {
	a := NewArith(12)
	requireNumber(t, "5", a.Add(MustParse("2"), MustParse("3")))
	requireNumber(t, "-1", a.Sub(MustParse("2"), MustParse("3")))
	requireNumber(t, "6", a.Mul(MustParse("2"), MustParse("3")))
	requireNumber(t, "0.666666666667", a.Quo(MustParse("2"), MustParse("3")))
	require.True(t, a.Quo(MustParse("2"), Zero()).IsNaN())
	require.True(t, a.Quo(Zero(), Zero()).IsNaN())
	require.True(t, a.Sqrt(MustParse("-4")).IsNaN())
	require.True(t, a.Add(NaN(), MustParse("1")).IsNaN())
	requireNumber(t, "3", a.Sqrt(MustParse("9")))
	requireNumber(t, "110", a.Scale(MustParse("100"), MustParse("10")))
	requireNumber(t, "100", a.Unscale(MustParse("110"), MustParse("10")))
	requireNumber(t, "1000000000000", a.Add(MustParse("999999999999"), MustParse("1")))
	requireNumber(t, "1000000000000", a.Add(MustParse("999999999999.4"), MustParse("0.6")))
}

func TestArith_PrecisionIsPerInstance(t *testing.T) {
	ten := NewArith(10)
	fourteen := NewArith(14)
	require.Equal(t, "0.3333333333", ten.Quo(MustParse("1"), MustParse("3")).String())
	require.Equal(t, "0.33333333333333", fourteen.Quo(MustParse("1"), MustParse("3")).String())
}
