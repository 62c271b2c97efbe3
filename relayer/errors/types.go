package errors

import (
	stderrors "errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// ErrorCode represents different categories of errors
type ErrorCode string

const (
	// ErrCodeValidation indicates input validation errors
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeNetwork indicates network-related errors
	ErrCodeNetwork ErrorCode = "NETWORK"

	// ErrCodeConfig indicates configuration errors
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeRPC indicates RPC-related errors
	ErrCodeRPC ErrorCode = "RPC"

	// ErrCodeTimeout indicates a call cut short by the per-request deadline
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeInternal indicates internal system errors
	ErrCodeInternal ErrorCode = "INTERNAL"

	// ErrCodeTaxQuery indicates a failed treasury tax rate or tax cap lookup
	ErrCodeTaxQuery ErrorCode = "TAX_QUERY"

	// ErrCodeSimulation indicates a failed dry-run of the outbound transaction
	ErrCodeSimulation ErrorCode = "SIMULATION"

	// ErrCodeSigning indicates a failure while signing or encoding the transaction
	ErrCodeSigning ErrorCode = "SIGNING"

	// ErrCodeLookup indicates a transaction lookup that failed for a reason
	// other than the transaction being absent
	ErrCodeLookup ErrorCode = "LOOKUP"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// ErrTxNotFound is returned by ledger lookups when every queried node reports
// the transaction hash as unknown.
var ErrTxNotFound = stderrors.New("transaction not found")

// RelayError represents an error raised while relaying a deposit batch
type RelayError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Severity Severity               `json:"severity"`
	Cause    error                  `json:"-"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// NewRelayError creates a new RelayError
func NewRelayError(code ErrorCode, message string, cause error) *RelayError {
	return &RelayError{
		Code:     code,
		Message:  message,
		Severity: determineSeverity(code),
		Cause:    cause,
		Context:  make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *RelayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Code, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message)
}

// Unwrap returns the underlying cause
func (e *RelayError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *RelayError) WithContext(key string, value interface{}) *RelayError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsRetryable returns true if the error is retryable
func (e *RelayError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeNetwork, ErrCodeRPC, ErrCodeTimeout, ErrCodeLookup, ErrCodeTaxQuery:
		return true
	default:
		return false
	}
}

func determineSeverity(code ErrorCode) Severity {
	switch code {
	case ErrCodeInternal:
		return SeverityCritical
	case ErrCodeSigning:
		return SeverityHigh
	case ErrCodeSimulation, ErrCodeTaxQuery, ErrCodeNetwork, ErrCodeRPC, ErrCodeTimeout, ErrCodeLookup:
		return SeverityMedium
	case ErrCodeValidation, ErrCodeConfig:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// BroadcastError is returned when the node rejects a submitted transaction
// with a non-zero code other than the duplicate-in-mempool code.
type BroadcastError struct {
	TxHash    string
	Code      uint32
	Codespace string
	// RawLog is the error output of the node's logger
	RawLog string
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("error while executing: %d - %s", e.Code, e.RawLog)
}

// Unwrap exposes the registered ABCI error for the codespace and code, so
// errors.Is(err, sdkerrors.ErrInsufficientFee) and friends work.
func (e *BroadcastError) Unwrap() error {
	return errorsmod.ABCIError(e.Codespace, e.Code, e.RawLog)
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *RelayError {
	return NewRelayError(ErrCodeValidation, message, nil)
}

// NewNetworkError creates a network error
func NewNetworkError(message string, cause error) *RelayError {
	return NewRelayError(ErrCodeNetwork, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string) *RelayError {
	return NewRelayError(ErrCodeConfig, message, nil)
}

// NewRPCError creates an RPC error
func NewRPCError(message string, cause error) *RelayError {
	return NewRelayError(ErrCodeRPC, message, cause)
}

// NewTimeoutError creates a deadline error
func NewTimeoutError(message string, cause error) *RelayError {
	return NewRelayError(ErrCodeTimeout, message, cause)
}

// NewTaxQueryError creates a treasury lookup error
func NewTaxQueryError(message string, cause error) *RelayError {
	return NewRelayError(ErrCodeTaxQuery, message, cause)
}

// NewSimulationError creates a simulation error
func NewSimulationError(message string, cause error) *RelayError {
	return NewRelayError(ErrCodeSimulation, message, cause)
}

// NewSigningError creates a signing error
func NewSigningError(message string, cause error) *RelayError {
	return NewRelayError(ErrCodeSigning, message, cause)
}

// NewLookupError creates a transient lookup error
func NewLookupError(message string, cause error) *RelayError {
	return NewRelayError(ErrCodeLookup, message, cause)
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *RelayError {
	return NewRelayError(ErrCodeInternal, message, cause)
}
