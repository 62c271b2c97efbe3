package core

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
)

func TestComputeTax(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		rate   string
		cap    int64
		want   int64
	}{
		{name: "rate below cap", amount: 2000000, rate: "0.005", cap: 1000000, want: 10000},
		{name: "cap binds", amount: 1000000000, rate: "0.005", cap: 1000000, want: 1000000},
		{name: "fractional tax rounds up", amount: 1001, rate: "0.005", cap: 1000000, want: 6},
		{name: "zero rate", amount: 5000, rate: "0", cap: 1000000, want: 0},
		{name: "zero cap", amount: 5000, rate: "0.005", cap: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := math.NewInt(tt.amount)
			tax := ComputeTax(amount, math.LegacyMustNewDecFromStr(tt.rate), math.NewInt(tt.cap))
			assert.Equal(t, tt.want, tax.Int64())
			assert.True(t, tax.LTE(math.NewInt(tt.cap)))
		})
	}
}

func TestScaleGas(t *testing.T) {
	assert.Equal(t, uint64(140000), ScaleGas(100000, math.LegacyMustNewDecFromStr("1.4")))
	assert.Equal(t, uint64(5), ScaleGas(3, math.LegacyMustNewDecFromStr("1.5")))
	assert.Equal(t, uint64(7), ScaleGas(7, math.LegacyOneDec()))
}

func TestFeeForGas(t *testing.T) {
	prices := sdk.NewDecCoins(
		sdk.NewDecCoinFromDec("uusd", math.LegacyMustNewDecFromStr("0.15")),
		sdk.NewDecCoinFromDec("ukrw", math.LegacyMustNewDecFromStr("178.05")),
	)

	fee := FeeForGas(prices, 140000)
	assert.Equal(t, int64(21000), fee.AmountOf("uusd").Int64())
	assert.Equal(t, int64(24927000), fee.AmountOf("ukrw").Int64())

	small := FeeForGas(prices, 3)
	assert.Equal(t, int64(1), small.AmountOf("uusd").Int64(), "0.45 rounds up")
}

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name      string
		simFee    sdk.Coins
		simGas    uint64
		surcharge uint64
		tax       sdk.Coins
		want      sdk.Coins
	}{
		{
			name:      "inflates and adds tax",
			simFee:    sdk.NewCoins(sdk.NewInt64Coin("uusd", 21000)),
			simGas:    140000,
			surcharge: 100000,
			tax:       sdk.NewCoins(sdk.NewInt64Coin("uusd", 10000)),
			want:      sdk.NewCoins(sdk.NewInt64Coin("uusd", 46000)),
		},
		{
			name:      "no tax term",
			simFee:    sdk.NewCoins(sdk.NewInt64Coin("uusd", 21000)),
			simGas:    140000,
			surcharge: 100000,
			want:      sdk.NewCoins(sdk.NewInt64Coin("uusd", 36000)),
		},
		{
			name:      "rounds up",
			simFee:    sdk.NewCoins(sdk.NewInt64Coin("uusd", 1)),
			simGas:    3,
			surcharge: 1,
			want:      sdk.NewCoins(sdk.NewInt64Coin("uusd", 2)),
		},
		{
			name:      "tax-only denom is carried",
			simFee:    sdk.NewCoins(sdk.NewInt64Coin("uusd", 100)),
			simGas:    100000,
			surcharge: 100000,
			tax:       sdk.NewCoins(sdk.NewInt64Coin("ukrw", 55)),
			want:      sdk.NewCoins(sdk.NewInt64Coin("ukrw", 55), sdk.NewInt64Coin("uusd", 200)),
		},
		{
			name:      "zero surcharge keeps baseline",
			simFee:    sdk.NewCoins(sdk.NewInt64Coin("uusd", 777)),
			simGas:    1000,
			surcharge: 0,
			want:      sdk.NewCoins(sdk.NewInt64Coin("uusd", 777)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFee(tt.simFee, tt.simGas, tt.surcharge, tt.tax)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
			assert.True(t, got.IsAllGTE(tt.simFee.Add(tt.tax...)))
		})
	}
}
