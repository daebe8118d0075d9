package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Rhymond/go-money"
	"github.com/nspcc-dev/fundme-contract/contracts/fundme/fundmeconst"
	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("invalid amount")

// parseGAS converts decimal GAS amount like "0.025" into integer amount in
// the smallest GAS units.
func parseGAS(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidAmount, err)
	}

	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: must be positive", errInvalidAmount)
	}

	d = d.Shift(fundmeconst.GASDecimals)
	if !d.IsInteger() {
		return nil, fmt.Errorf("%w: GAS has only %d decimals", errInvalidAmount, fundmeconst.GASDecimals)
	}

	return d.BigInt(), nil
}

// formatGAS returns human-readable GAS amount.
func formatGAS(v *big.Int) string {
	return decimal.NewFromBigInt(v, -fundmeconst.GASDecimals).String() + " GAS"
}

// formatUSD returns human-readable USD amount from a value with USDDecimals
// precision. Fractions of cents are truncated.
func formatUSD(v *big.Int) string {
	cur := money.GetCurrency(money.USD)
	cents := decimal.NewFromBigInt(v, -fundmeconst.USDDecimals).Shift(int32(cur.Fraction)).IntPart()
	return money.New(cents, money.USD).Display()
}

// formatPrice returns human-readable price reported by the feed.
func formatPrice(answer *big.Int, decimals int64) string {
	return decimal.NewFromBigInt(answer, int32(-decimals)).String() + " USD/GAS"
}
