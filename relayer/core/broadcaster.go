package core

import (
	"context"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/rs/zerolog"

	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
	"github.com/pushchain/terra-shuttle/relayer/metrics"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

// Broadcaster submits signed transactions for mempool admission.
type Broadcaster struct {
	ledger        Ledger
	duplicateCode uint32
	logger        zerolog.Logger
}

func NewBroadcaster(ledger Ledger, duplicateCode uint32, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		ledger:        ledger,
		duplicateCode: duplicateCode,
		logger:        logger.With().Str("component", "broadcaster").Logger(),
	}
}

// Relay submits tx once. A tx already in the mempool cache counts as
// accepted. Any other rejection is returned as *relayerrors.BroadcastError.
func (b *Broadcaster) Relay(ctx context.Context, tx *types.SignedTransaction) error {
	if tx == nil || len(tx.Tx) == 0 {
		return relayerrors.NewValidationError("nothing to broadcast")
	}

	resp, err := b.ledger.BroadcastTxSync(ctx, tx.Tx)
	if err != nil {
		metrics.RecordBroadcast("error")
		return relayerrors.NewNetworkError("failed to broadcast transaction", err).WithContext("tx_hash", tx.TxHash)
	}

	if resp == nil {
		metrics.RecordBroadcast("error")
		return relayerrors.NewNetworkError("empty broadcast response", nil).WithContext("tx_hash", tx.TxHash)
	}

	switch {
	case resp.Code == 0:
		metrics.RecordBroadcast("accepted")
		b.logger.Info().Str("tx_hash", tx.TxHash).Uint64("sequence", tx.Sequence).Msg("transaction accepted")
		return nil
	case b.isDuplicate(resp.Code, resp.Codespace):
		metrics.RecordBroadcast("duplicate")
		b.logger.Info().Str("tx_hash", tx.TxHash).Msg("transaction already in mempool")
		return nil
	}

	metrics.RecordBroadcast("rejected")
	b.logger.Error().
		Str("tx_hash", tx.TxHash).
		Uint32("code", resp.Code).
		Str("codespace", resp.Codespace).
		Str("raw_log", resp.RawLog).
		Msg("transaction rejected")

	hash := resp.TxHash
	if hash == "" {
		hash = tx.TxHash
	}
	return &relayerrors.BroadcastError{
		TxHash:    hash,
		Code:      resp.Code,
		Codespace: resp.Codespace,
		RawLog:    resp.RawLog,
	}
}

// isDuplicate matches the configured code within the root codespace.
func (b *Broadcaster) isDuplicate(code uint32, codespace string) bool {
	if code != b.duplicateCode {
		return false
	}
	return codespace == "" || codespace == sdkerrors.RootCodespace
}
