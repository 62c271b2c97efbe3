package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
	"github.com/pushchain/terra-shuttle/relayer/metrics"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

// Lookup reports the inclusion status of transactions.
type Lookup struct {
	ledger Ledger
	logger zerolog.Logger
}

func NewLookup(ledger Ledger, logger zerolog.Logger) *Lookup {
	return &Lookup{
		ledger: ledger,
		logger: logger.With().Str("component", "lookup").Logger(),
	}
}

// GetTransaction returns the tx info for hash. It returns nil, nil when the
// ledger definitely does not know the hash, and a LOOKUP error when the
// answer could not be obtained.
func (l *Lookup) GetTransaction(ctx context.Context, hash string) (*types.TxInfo, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, relayerrors.NewValidationError("empty transaction hash")
	}

	resp, err := l.ledger.GetTx(ctx, hash)
	if err != nil {
		if relayerrors.Is(err, relayerrors.ErrTxNotFound) {
			metrics.RecordLookup("not_found")
			l.logger.Debug().Str("tx_hash", hash).Msg("transaction not found")
			return nil, nil
		}
		metrics.RecordLookup("error")
		return nil, relayerrors.NewLookupError("failed to look up transaction", err).WithContext("tx_hash", hash)
	}

	metrics.RecordLookup("found")
	return types.TxInfoFromResponse(resp), nil
}
