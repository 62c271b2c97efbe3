package gasprice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/pushchain/terra-shuttle/relayer/metrics"
)

// Fallback reasons reported to metrics.
const (
	reasonDisabled = "disabled"
	reasonRequest  = "request"
	reasonStatus   = "status"
	reasonDecode   = "decode"
	reasonMissing  = "missing_denom"
	reasonInvalid  = "invalid_price"
)

// fetchError carries the metrics reason alongside the cause.
type fetchError struct {
	reason string
	err    error
}

func (e *fetchError) Error() string { return e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

// Oracle reads a gas price table of the form {"<denom>": "<price>"} and
// extracts the configured denom.
type Oracle struct {
	endpoint   string
	denom      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates an oracle. An empty endpoint disables it.
func New(endpoint, denom string, timeout time.Duration, logger zerolog.Logger) *Oracle {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Oracle{
		endpoint:   endpoint,
		denom:      denom,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "gas_price_oracle").Logger(),
	}
}

// GasPrices returns the current gas price for the configured denom, or nil
// when the oracle is disabled or fails. Callers fall back to default prices
// on nil; this method never returns an error.
func (o *Oracle) GasPrices(ctx context.Context) sdk.DecCoins {
	if o.endpoint == "" {
		metrics.RecordGasPriceFallback(reasonDisabled)
		return nil
	}

	prices, err := o.fetch(ctx)
	if err != nil {
		reason := reasonRequest
		var fe *fetchError
		if errors.As(err, &fe) {
			reason = fe.reason
		}
		o.logger.Warn().
			Err(err).
			Str("endpoint", o.endpoint).
			Str("reason", reason).
			Msg("gas price fetch failed; using default gas prices")
		metrics.RecordGasPriceFallback(reason)
		return nil
	}

	o.logger.Debug().Str("gas_prices", prices.String()).Msg("fetched gas prices")
	return prices
}

func (o *Oracle) fetch(ctx context.Context) (sdk.DecCoins, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint, nil)
	if err != nil {
		return nil, &fetchError{reasonRequest, errors.Wrap(err, "failed to create request")}
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, &fetchError{reasonRequest, errors.Wrap(err, "failed to make request")}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, &fetchError{reasonStatus, errors.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	var table map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return nil, &fetchError{reasonDecode, errors.Wrap(err, "failed to decode price table")}
	}

	raw, ok := table[o.denom]
	if !ok {
		return nil, &fetchError{reasonMissing, errors.Errorf("denom %s not in price table", o.denom)}
	}

	price, err := cast.ToStringE(raw)
	if err != nil {
		return nil, &fetchError{reasonInvalid, errors.Wrapf(err, "price for %s is not a scalar", o.denom)}
	}
	price = strings.TrimSpace(price)

	prices, err := sdk.ParseDecCoins(price + o.denom)
	if err != nil {
		return nil, &fetchError{reasonInvalid, errors.Wrapf(err, "invalid price %q for %s", price, o.denom)}
	}
	if prices.IsZero() {
		return nil, &fetchError{reasonInvalid, errors.Errorf("zero price for %s", o.denom)}
	}
	return prices, nil
}
