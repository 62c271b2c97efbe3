package terracore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	taxRatePath = "/terra/treasury/v1beta1/tax_rate"
	taxCapsPath = "/terra/treasury/v1beta1/tax_caps/"
)

// Treasury reads the transfer tax parameters from the LCD REST endpoint.
type Treasury struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewTreasury creates a treasury client for the given LCD URL.
func NewTreasury(baseURL string, timeout time.Duration, logger zerolog.Logger) *Treasury {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Treasury{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "treasury").Logger(),
	}
}

type taxRateResponse struct {
	TaxRate string `json:"tax_rate"`
}

type taxCapResponse struct {
	TaxCap string `json:"tax_cap"`
}

// TaxRate returns the current transfer tax rate.
func (t *Treasury) TaxRate(ctx context.Context) (math.LegacyDec, error) {
	var resp taxRateResponse
	if err := t.get(ctx, taxRatePath, &resp); err != nil {
		return math.LegacyDec{}, errors.Wrap(err, "failed to query tax rate")
	}

	rate, err := math.LegacyNewDecFromStr(resp.TaxRate)
	if err != nil {
		return math.LegacyDec{}, errors.Wrapf(err, "invalid tax rate %q", resp.TaxRate)
	}
	if rate.IsNegative() {
		return math.LegacyDec{}, errors.Errorf("negative tax rate %s", rate)
	}

	t.logger.Debug().Str("tax_rate", rate.String()).Msg("fetched tax rate")
	return rate, nil
}

// TaxCap returns the maximum tax charged per transfer of denom.
func (t *Treasury) TaxCap(ctx context.Context, denom string) (math.Int, error) {
	var resp taxCapResponse
	if err := t.get(ctx, taxCapsPath+url.PathEscape(denom), &resp); err != nil {
		return math.Int{}, errors.Wrapf(err, "failed to query tax cap for %s", denom)
	}

	capAmt, ok := math.NewIntFromString(resp.TaxCap)
	if !ok {
		return math.Int{}, errors.Errorf("invalid tax cap %q for %s", resp.TaxCap, denom)
	}
	if capAmt.IsNegative() {
		return math.Int{}, errors.Errorf("negative tax cap %s for %s", capAmt, denom)
	}

	t.logger.Debug().Str("denom", denom).Str("tax_cap", capAmt.String()).Msg("fetched tax cap")
	return capAmt, nil
}

func (t *Treasury) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to make request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
