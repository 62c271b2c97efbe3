package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WrapRelayError wraps an error as a RelayError if it isn't already one
func WrapRelayError(err error, code ErrorCode, message string) *RelayError {
	if err == nil {
		return nil
	}

	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		relayErr.WithContext("wrapped_message", message)
		return relayErr
	}

	return NewRelayError(code, message, err)
}

// Is checks if an error is of a specific type
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// FromDeadline reports err as a TIMEOUT error when it stems from ctx's
// deadline expiring. Node rejections and other errors pass through.
func FromDeadline(ctx context.Context, err error, message string) error {
	if err == nil || IsRelayError(err, ErrCodeTimeout) {
		return err
	}
	if _, ok := IsBroadcastError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewTimeoutError(message, err)
	}
	return err
}

// IsRelayError checks if an error is a RelayError with specific code
func IsRelayError(err error, code ErrorCode) bool {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Code == code
	}
	return false
}

// IsBroadcastError reports whether err carries a node rejection and returns it.
func IsBroadcastError(err error) (*BroadcastError, bool) {
	var bErr *BroadcastError
	if errors.As(err, &bErr) {
		return bErr, true
	}
	return nil, false
}

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"temporary failure",
	"too many requests",
	"rate limit",
	"unavailable",
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.IsRetryable()
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// GetSeverity returns the severity of an error
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityInfo
	}

	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Severity
	}
	if _, ok := IsBroadcastError(err); ok {
		return SeverityHigh
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "panic") || strings.Contains(errStr, "fatal") {
		return SeverityCritical
	}
	if strings.Contains(errStr, "failed") || strings.Contains(errStr, "error") {
		return SeverityHigh
	}

	return SeverityLow
}
