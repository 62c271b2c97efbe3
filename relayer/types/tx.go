package types

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// SimulationResult is the baseline gas and fee from a dry-run.
type SimulationResult struct {
	GasLimit  uint64
	FeeAmount sdk.Coins
}

// SignedTransaction is a signed, encoded outbound transaction ready to be
// broadcast.
type SignedTransaction struct {
	Tx        []byte    `json:"tx"`
	TxHash    string    `json:"txHash"`
	CreatedAt time.Time `json:"createdAt"`
	Sequence  uint64    `json:"sequence"`
	GasLimit  uint64    `json:"gasLimit"`
	Fee       sdk.Coins `json:"fee"`
}

// TxInfo is the inclusion result of a transaction.
type TxInfo struct {
	TxHash    string `json:"tx_hash"`
	Height    int64  `json:"height"`
	Code      uint32 `json:"code"`
	Codespace string `json:"codespace,omitempty"`
	RawLog    string `json:"raw_log,omitempty"`
	GasWanted int64  `json:"gas_wanted"`
	GasUsed   int64  `json:"gas_used"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Succeeded reports whether the transaction executed without error.
func (t *TxInfo) Succeeded() bool {
	return t != nil && t.Code == 0
}

// TxInfoFromResponse converts a node tx response.
func TxInfoFromResponse(resp *sdk.TxResponse) *TxInfo {
	if resp == nil {
		return nil
	}
	return &TxInfo{
		TxHash:    resp.TxHash,
		Height:    resp.Height,
		Code:      resp.Code,
		Codespace: resp.Codespace,
		RawLog:    resp.RawLog,
		GasWanted: resp.GasWanted,
		GasUsed:   resp.GasUsed,
		Timestamp: resp.Timestamp,
	}
}
