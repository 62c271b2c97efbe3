package core

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ScaleGas returns ceil(gasUsed * adjustment).
func ScaleGas(gasUsed uint64, adjustment math.LegacyDec) uint64 {
	return math.NewIntFromUint64(gasUsed).ToLegacyDec().Mul(adjustment).Ceil().TruncateInt().Uint64()
}

// FeeForGas returns ceil(price * gasLimit) for every gas price denom.
func FeeForGas(gasPrices sdk.DecCoins, gasLimit uint64) sdk.Coins {
	limit := math.NewIntFromUint64(gasLimit)
	fees := make(sdk.Coins, 0, len(gasPrices))
	for _, gp := range gasPrices {
		fees = append(fees, sdk.NewCoin(gp.Denom, gp.Amount.MulInt(limit).Ceil().TruncateInt()))
	}
	return sdk.NewCoins(fees...)
}

// ComputeFee inflates the simulated fee by the extra gas the surcharge buys
// and adds the accumulated transfer tax:
//
//	fee[denom] = ceil(simFee[denom] * (1 + surcharge/simGas)) + tax[denom]
//
// The product is evaluated as ceil(simFee * (simGas+surcharge) / simGas) in
// integers so no precision is lost. Denoms present only in tax are carried
// as-is. simGas must be non-zero.
func ComputeFee(simFee sdk.Coins, simGas, surcharge uint64, tax sdk.Coins) sdk.Coins {
	gas := math.NewIntFromUint64(simGas)
	total := gas.Add(math.NewIntFromUint64(surcharge))

	inflated := make(sdk.Coins, 0, len(simFee))
	for _, c := range simFee {
		inflated = append(inflated, sdk.NewCoin(c.Denom, ceilDiv(c.Amount.Mul(total), gas)))
	}

	return sdk.NewCoins(inflated...).Add(sdk.NewCoins(tax...)...)
}

func ceilDiv(num, den math.Int) math.Int {
	q := num.Quo(den)
	if !num.Mod(den).IsZero() {
		q = q.AddRaw(1)
	}
	return q
}
