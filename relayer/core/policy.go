package core

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"

	"github.com/pushchain/terra-shuttle/relayer/config"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

// Policy holds the relay constants applied while building a batch.
type Policy struct {
	DonationAddress string
	Bech32Prefix    string
	DecimalShift    int
	MinAmountDigits int
	TaxGasSurcharge uint64
	GasAdjustment   math.LegacyDec
	DuplicateTxCode uint32
}

// PolicyFromConfig extracts the relay policy from a validated config.
func PolicyFromConfig(cfg *config.Config) (Policy, error) {
	adj, err := math.LegacyNewDecFromStr(strconv.FormatFloat(cfg.GasAdjustment, 'f', -1, 64))
	if err != nil {
		return Policy{}, fmt.Errorf("invalid gas adjustment %v: %w", cfg.GasAdjustment, err)
	}

	p := Policy{
		DonationAddress: cfg.DonationAddress,
		Bech32Prefix:    cfg.Bech32Prefix,
		DecimalShift:    cfg.DecimalShift,
		MinAmountDigits: cfg.MinAmountDigits,
		TaxGasSurcharge: cfg.TaxGasSurcharge,
		GasAdjustment:   adj,
		DuplicateTxCode: cfg.DuplicateTxCode,
	}
	return p, p.validate()
}

func (p Policy) validate() error {
	if p.DecimalShift < 0 || p.MinAmountDigits <= p.DecimalShift {
		return fmt.Errorf("min amount digits (%d) must exceed decimal shift (%d)", p.MinAmountDigits, p.DecimalShift)
	}
	if p.GasAdjustment.IsNil() || p.GasAdjustment.LT(math.LegacyOneDec()) {
		return fmt.Errorf("gas adjustment must be at least 1")
	}
	if !types.ValidateAddress(p.DonationAddress, p.Bech32Prefix) {
		return fmt.Errorf("donation address %q is not a valid %s address", p.DonationAddress, p.Bech32Prefix)
	}
	return nil
}
