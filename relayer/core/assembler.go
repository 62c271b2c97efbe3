package core

import (
	"context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"

	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

// Assembler simulates, prices and signs outbound transactions.
type Assembler struct {
	wallet           Wallet
	ledger           Ledger
	policy           Policy
	defaultGasPrices sdk.DecCoins
	now              func() time.Time
	logger           zerolog.Logger
}

func NewAssembler(wallet Wallet, ledger Ledger, policy Policy, defaultGasPrices sdk.DecCoins, logger zerolog.Logger) *Assembler {
	return &Assembler{
		wallet:           wallet,
		ledger:           ledger,
		policy:           policy,
		defaultGasPrices: defaultGasPrices,
		now:              time.Now,
		logger:           logger.With().Str("component", "assembler").Logger(),
	}
}

// Simulate dry-runs msgs and returns the adjusted gas limit and the fee it
// costs at gasPrices.
func (a *Assembler) Simulate(ctx context.Context, msgs []sdk.Msg, gasPrices sdk.DecCoins, sequence uint64) (*types.SimulationResult, error) {
	simTx, err := a.wallet.SimulationTx(msgs, sequence)
	if err != nil {
		return nil, relayerrors.NewSimulationError("failed to encode simulation tx", err)
	}

	resp, err := a.ledger.Simulate(ctx, simTx)
	if err != nil {
		return nil, relayerrors.NewSimulationError("simulation failed", err)
	}
	if resp.GetGasInfo() == nil || resp.GetGasInfo().GasUsed == 0 {
		return nil, relayerrors.NewSimulationError("simulation reported zero gas", nil)
	}

	gasLimit := ScaleGas(resp.GasInfo.GasUsed, a.policy.GasAdjustment)
	return &types.SimulationResult{
		GasLimit:  gasLimit,
		FeeAmount: FeeForGas(gasPrices, gasLimit),
	}, nil
}

// Assemble builds the signed transaction for msgs at sequence. A nil
// gasPrices selects the default gas prices.
func (a *Assembler) Assemble(
	ctx context.Context,
	msgs []types.OutboundMessage,
	gasPrices sdk.DecCoins,
	sequence uint64,
	tax *types.TaxAccumulator,
) (*types.SignedTransaction, error) {
	sdkMsgs, err := types.ToSDKMsgs(msgs)
	if err != nil {
		return nil, relayerrors.NewInternalError("failed to convert messages", err)
	}

	if len(gasPrices) == 0 {
		gasPrices = a.defaultGasPrices
	}

	sim, err := a.Simulate(ctx, sdkMsgs, gasPrices, sequence)
	if err != nil {
		return nil, err
	}

	gasLimit := sim.GasLimit + a.policy.TaxGasSurcharge
	fee := ComputeFee(sim.FeeAmount, sim.GasLimit, a.policy.TaxGasSurcharge, tax.Coins())

	accountNumber, _, err := a.wallet.AccountInfo(ctx)
	if err != nil {
		return nil, relayerrors.NewSigningError("failed to load account number", err)
	}

	txBytes, err := a.wallet.Sign(ctx, sdkMsgs, gasLimit, fee, accountNumber, sequence)
	if err != nil {
		return nil, relayerrors.NewSigningError("failed to sign transaction", err)
	}

	signed := &types.SignedTransaction{
		Tx:        txBytes,
		TxHash:    a.wallet.TxHash(txBytes),
		CreatedAt: a.now().UTC(),
		Sequence:  sequence,
		GasLimit:  gasLimit,
		Fee:       fee,
	}

	a.logger.Info().
		Str("tx_hash", signed.TxHash).
		Int("msg_count", len(msgs)).
		Uint64("sequence", sequence).
		Uint64("simulated_gas", sim.GasLimit).
		Uint64("gas_limit", gasLimit).
		Str("gas_prices", gasPrices.String()).
		Str("tax", tax.Coins().String()).
		Str("fee", fee.String()).
		Msg("transaction assembled")

	return signed, nil
}
