package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
)

const maxRelayBody = 4 << 20

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleSequence handles GET /api/v1/sequence
func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	seq, err := s.relayer.LoadSequence(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SequenceResponse{Sequence: seq})
}

// handleRelay handles POST /api/v1/relay. Requests are serialized because
// they share the account sequence.
func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	var req RelayRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRelayBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	s.relayMu.Lock()
	defer s.relayMu.Unlock()

	ctx := r.Context()
	var sequence uint64
	if req.Sequence != nil {
		sequence = *req.Sequence
	} else {
		seq, err := s.relayer.LoadSequence(ctx)
		if err != nil {
			s.writeError(w, err)
			return
		}
		sequence = seq
	}

	tx, err := s.relayer.Build(ctx, req.Records, sequence)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tx == nil {
		writeJSON(w, http.StatusOK, RelayResponse{Relayed: false, Sequence: sequence})
		return
	}

	if err := s.relayer.Relay(ctx, tx); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info().
		Str("tx_hash", tx.TxHash).
		Uint64("sequence", sequence).
		Int("records", len(req.Records)).
		Msg("relayed batch")
	writeJSON(w, http.StatusOK, RelayResponse{Relayed: true, TxHash: tx.TxHash, Sequence: sequence})
}

// handleTx handles GET /api/v1/txs/{hash}
func (s *Server) handleTx(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]

	info, err := s.relayer.GetTransaction(r.Context(), hash)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if info == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "transaction not found", TxHash: hash})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// writeError maps relay errors onto HTTP statuses and logs them at a level
// matching their severity.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if bErr, ok := relayerrors.IsBroadcastError(err); ok {
		s.logFailure(err, http.StatusBadGateway)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:  err.Error(),
			Code:   bErr.Code,
			RawLog: bErr.RawLog,
			TxHash: bErr.TxHash,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case relayerrors.IsRelayError(err, relayerrors.ErrCodeValidation):
		status = http.StatusBadRequest
	case relayerrors.IsRelayError(err, relayerrors.ErrCodeTimeout):
		status = http.StatusGatewayTimeout
	case relayerrors.IsRetryable(err):
		status = http.StatusServiceUnavailable
	}

	s.logFailure(err, status)
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) logFailure(err error, status int) {
	severity := relayerrors.GetSeverity(err)

	var event *zerolog.Event
	switch severity {
	case relayerrors.SeverityCritical, relayerrors.SeverityHigh:
		event = s.logger.Error()
	case relayerrors.SeverityMedium:
		event = s.logger.Warn()
	default:
		event = s.logger.Info()
	}
	event.Err(err).Int("status", status).Str("severity", string(severity)).Msg("request failed")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
