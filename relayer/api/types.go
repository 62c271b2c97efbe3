package api

import "github.com/pushchain/terra-shuttle/relayer/types"

// RelayRequest is the body of POST /api/v1/relay. When Sequence is nil the
// account's current sequence is loaded from the ledger.
type RelayRequest struct {
	Records  []types.DepositRecord `json:"records"`
	Sequence *uint64               `json:"sequence,omitempty"`
}

// RelayResponse reports the outcome of a relay request.
type RelayResponse struct {
	Relayed  bool   `json:"relayed"`
	TxHash   string `json:"tx_hash,omitempty"`
	Sequence uint64 `json:"sequence"`
}

// SequenceResponse is returned by GET /api/v1/sequence.
type SequenceResponse struct {
	Sequence uint64 `json:"sequence"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   uint32 `json:"code,omitempty"`
	RawLog string `json:"raw_log,omitempty"`
	TxHash string `json:"tx_hash,omitempty"`
}
