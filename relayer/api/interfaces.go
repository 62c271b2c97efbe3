package api

import (
	"context"

	"github.com/pushchain/terra-shuttle/relayer/types"
)

// Relayer defines the methods needed by the API server.
type Relayer interface {
	Build(ctx context.Context, records []types.DepositRecord, sequence uint64) (*types.SignedTransaction, error)
	Relay(ctx context.Context, tx *types.SignedTransaction) error
	GetTransaction(ctx context.Context, hash string) (*types.TxInfo, error)
	LoadSequence(ctx context.Context) (uint64, error)
}
