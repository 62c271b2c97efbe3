package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TaxAccumulator sums the transfer tax owed per denom across one batch.
// The zero value is ready to use.
type TaxAccumulator struct {
	coins sdk.Coins
}

// NewTaxAccumulator returns an empty accumulator.
func NewTaxAccumulator() *TaxAccumulator {
	return &TaxAccumulator{}
}

// Add accumulates coin. Zero coins are ignored.
func (t *TaxAccumulator) Add(coin sdk.Coin) {
	if coin.IsNil() || coin.IsZero() {
		return
	}
	t.coins = t.coins.Add(coin)
}

// AmountOf returns the tax owed for denom.
func (t *TaxAccumulator) AmountOf(denom string) math.Int {
	return t.coins.AmountOf(denom)
}

// Coins returns a copy of the accumulated tax.
func (t *TaxAccumulator) Coins() sdk.Coins {
	if t == nil || len(t.coins) == 0 {
		return sdk.Coins{}
	}
	return sdk.NewCoins(t.coins...)
}

func (t *TaxAccumulator) IsEmpty() bool {
	return t == nil || t.coins.IsZero()
}
