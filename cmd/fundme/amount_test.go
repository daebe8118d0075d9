package main

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGAS(t *testing.T) {
	for s, expected := range map[string]int64{
		"1":           1_0000_0000,
		"0.025":       250_0000,
		"0.00000001":  1,
		"12.5":        12_5000_0000,
		"1.000000000": 1_0000_0000,
	} {
		v, err := parseGAS(s)
		require.NoError(t, err, s)
		require.EqualValues(t, expected, v.Int64(), s)
	}

	for _, s := range []string{"", "abc", "0", "-1", "0.000000001"} {
		_, err := parseGAS(s)
		require.ErrorIs(t, err, errInvalidAmount, s)
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "0.025 GAS", formatGAS(big.NewInt(250_0000)))
	require.Equal(t, "0 GAS", formatGAS(big.NewInt(0)))

	usd := func(dollars, cents int64) *big.Int {
		v := new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)
		return v.Mul(v, big.NewInt(dollars*100+cents))
	}
	require.Equal(t, "$50.00", formatUSD(usd(50, 0)))
	require.Equal(t, "$1,234.56", formatUSD(usd(1234, 56)))
	require.Equal(t, "$0.00", formatUSD(big.NewInt(1)))

	require.Equal(t, "2000 USD/GAS", formatPrice(big.NewInt(2000_0000_0000), 8))
	require.Equal(t, "1999.5 USD/GAS", formatPrice(big.NewInt(1999_5000_0000), 8))
}
