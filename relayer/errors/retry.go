package errors

import (
	"context"
	stderrors "errors"
	"time"
)

// RetryConfig bounds how often and how patiently a ledger call is repeated.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// RetryableErrors extends RelayError.IsRetryable with extra codes.
	RetryableErrors []ErrorCode
}

// DefaultRetryConfig is used for account sequence reads.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     3,
		InitialDelay:    time.Second,
		MaxDelay:        30 * time.Second,
		Multiplier:      2.0,
		RetryableErrors: []ErrorCode{ErrCodeNetwork, ErrCodeRPC, ErrCodeTimeout},
	}
}

func (c *RetryConfig) retryable(err error) bool {
	var relayErr *RelayError
	if !stderrors.As(err, &relayErr) {
		return IsRetryable(err)
	}
	for _, code := range c.RetryableErrors {
		if relayErr.Code == code {
			return true
		}
	}
	return relayErr.IsRetryable()
}

func (c *RetryConfig) next(delay time.Duration) time.Duration {
	delay = time.Duration(float64(delay) * c.Multiplier)
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// RetryWithConfig calls fn until it succeeds, returns a non-retryable error,
// the context ends, or MaxAttempts is spent. A nil config means defaults.
func RetryWithConfig(ctx context.Context, fn func() error, config *RetryConfig) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var (
		lastErr error
		delay   = config.InitialDelay
	)
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if !config.retryable(lastErr) || attempt == config.MaxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = config.next(delay)
	}

	if !config.retryable(lastErr) {
		return lastErr
	}
	return WrapRelayError(lastErr, ErrCodeInternal, "maximum retry attempts exceeded").
		WithContext("attempts", config.MaxAttempts)
}
