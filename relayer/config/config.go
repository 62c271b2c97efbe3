package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pushchain/terra-shuttle/relayer/constant"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

//go:embed default_config.json
var defaultConfigJSON []byte

// Validate applies defaults to unset fields and rejects invalid values.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	// Set defaults for ledger config
	if cfg.ChainID == "" {
		cfg.ChainID = "columbus-5"
	}
	if len(cfg.GRPCURLs) == 0 {
		cfg.GRPCURLs = []string{"localhost:9090"}
	}
	if cfg.Bech32Prefix == "" {
		cfg.Bech32Prefix = "terra"
	}
	if cfg.CoinType == 0 {
		cfg.CoinType = 330
	}
	if cfg.KeyName == "" {
		cfg.KeyName = "shuttle"
	}

	// Validate fee estimation config
	if cfg.DefaultGasPrices == "" {
		return fmt.Errorf("default_gas_prices is required")
	}
	if _, err := cfg.DefaultGasPriceCoins(); err != nil {
		return fmt.Errorf("invalid default_gas_prices %q: %w", cfg.DefaultGasPrices, err)
	}
	if cfg.GasPriceEndpoint != "" && cfg.GasPriceDenom == "" {
		return fmt.Errorf("gas_price_denom is required when gas_price_endpoint is set")
	}
	if cfg.GasAdjustment == 0 {
		cfg.GasAdjustment = 1.4
	}
	if cfg.GasAdjustment < 1 {
		return fmt.Errorf("gas_adjustment must be at least 1")
	}

	// Set defaults for relay policy. A zero decimal_shift is a valid policy
	// (no rescaling); its default comes from default_config.json only.
	if cfg.MinAmountDigits == 0 {
		cfg.MinAmountDigits = constant.DefaultMinAmountDigits
	}
	if cfg.DecimalShift < 0 {
		return fmt.Errorf("decimal_shift must not be negative")
	}
	if cfg.MinAmountDigits <= cfg.DecimalShift {
		return fmt.Errorf("min_amount_digits must be greater than decimal_shift")
	}
	if cfg.TaxGasSurcharge == 0 {
		cfg.TaxGasSurcharge = constant.DefaultTaxGasSurcharge
	}
	if cfg.DuplicateTxCode == 0 {
		cfg.DuplicateTxCode = constant.DefaultDuplicateTxCode
	}

	// Validate donation address
	if cfg.DonationAddress == "" {
		return fmt.Errorf("donation_address is required")
	}
	if !types.ValidateAddress(cfg.DonationAddress, cfg.Bech32Prefix) {
		return fmt.Errorf("donation_address %q is not a valid %s address", cfg.DonationAddress, cfg.Bech32Prefix)
	}

	// Set defaults for transport
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = constant.DefaultRequestTimeoutSeconds
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds must not be negative")
	}

	// Set defaults for query server
	if cfg.QueryServerPort == 0 {
		cfg.QueryServerPort = 8080
	}

	return nil
}

// Save writes the given config to <basePath>/config/shuttle_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, constant.ConfigSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The mnemonic never lands on disk; it is supplied through the environment.
	toWrite := *cfg
	toWrite.Mnemonic = ""

	configFile := filepath.Join(configDir, constant.ConfigFileName)
	data, err := json.MarshalIndent(&toWrite, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads the config from <basePath>/config/shuttle_config.json. Fields
// missing from the file keep their embedded default values.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, constant.ConfigSubdir, constant.ConfigFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := LoadDefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}
