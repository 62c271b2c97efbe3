package config

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level"`   // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format"`  // "json" or "console"
	LogSampler bool   `json:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Destination ledger
	ChainID      string   `json:"chain_id"`      // Terra chain ID (default: columbus-5)
	GRPCURLs     []string `json:"grpc_urls"`     // Terra gRPC endpoints (default: ["localhost:9090"])
	LCDURL       string   `json:"lcd_url"`       // Terra LCD endpoint used for treasury queries
	Bech32Prefix string   `json:"bech32_prefix"` // Account address prefix (default: terra)
	CoinType     uint32   `json:"coin_type"`     // BIP44 coin type used to derive the signing key (default: 330)

	// Signing identity
	KeyName  string `json:"key_name"` // Name of the key inside the in-memory keyring
	Mnemonic string `json:"mnemonic"` // Signing secret; usually supplied through TERRA_MNEMONIC

	// Fee estimation
	DefaultGasPrices string  `json:"default_gas_prices"` // Used when the oracle is unavailable, e.g. "0.15uusd"
	GasPriceEndpoint string  `json:"gas_price_endpoint"` // Oracle URL returning {denom: price}
	GasPriceDenom    string  `json:"gas_price_denom"`    // Denom picked from the oracle table
	GasAdjustment    float64 `json:"gas_adjustment"`     // Multiplier applied to simulated gas usage

	// Relay policy
	DonationAddress string `json:"donation_address"`  // Fallback recipient for malformed destinations
	DecimalShift    int    `json:"decimal_shift"`     // Trailing digits dropped when rescaling (default: 12; 0 disables rescaling)
	MinAmountDigits int    `json:"min_amount_digits"` // Shorter raw amounts are skipped (default: 13)
	TaxGasSurcharge uint64 `json:"tax_gas_surcharge"` // Extra gas for tax-bearing transfers (default: 100000)
	DuplicateTxCode uint32 `json:"duplicate_tx_code"` // Broadcast code treated as success (default: 19)

	// Transport
	RequestTimeoutSeconds int `json:"request_timeout_seconds"` // Per-call timeout (default: 15)

	// Query Server Config
	QueryServerPort int `json:"query_server_port"` // Port for HTTP query server (default: 8080)
}

// RequestTimeout returns the per-call timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DefaultGasPriceCoins parses DefaultGasPrices.
func (c *Config) DefaultGasPriceCoins() (sdk.DecCoins, error) {
	return sdk.ParseDecCoins(c.DefaultGasPrices)
}
