package core

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
)

// TaxQuerier reads the destination ledger's transfer tax parameters.
type TaxQuerier interface {
	TaxRate(ctx context.Context) (math.LegacyDec, error)
	TaxCap(ctx context.Context, denom string) (math.Int, error)
}

// GasPriceSource returns live gas prices, or nil to request default pricing.
type GasPriceSource interface {
	GasPrices(ctx context.Context) sdk.DecCoins
}

// Ledger is the transaction service of the destination ledger.
type Ledger interface {
	Simulate(ctx context.Context, txBytes []byte) (*txtypes.SimulateResponse, error)
	BroadcastTxSync(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error)
	GetTx(ctx context.Context, hash string) (*sdk.TxResponse, error)
}

// Wallet is the relayer's signing identity.
type Wallet interface {
	Address() string
	AccountInfo(ctx context.Context) (accountNumber uint64, sequence uint64, err error)
	SimulationTx(msgs []sdk.Msg, sequence uint64) ([]byte, error)
	Sign(ctx context.Context, msgs []sdk.Msg, gasLimit uint64, fee sdk.Coins, accountNumber, sequence uint64) ([]byte, error)
	TxHash(txBytes []byte) string
}
