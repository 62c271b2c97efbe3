package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Environment variables understood by ApplyEnv. These are the names the
// shuttle deployment has always exported.
const (
	EnvMnemonic         = "TERRA_MNEMONIC"
	EnvChainID          = "TERRA_CHAIN_ID"
	EnvLCDURL           = "TERRA_URL"
	EnvGRPCURLs         = "TERRA_GRPC_URLS"
	EnvGasPrice         = "TERRA_GAS_PRICE"
	EnvGasPriceEndpoint = "TERRA_GAS_PRICE_END_POINT"
	EnvGasPriceDenom    = "TERRA_GAS_PRICE_DENOM"
	EnvGasAdjustment    = "TERRA_GAS_ADJUSTMENT"
	EnvDonation         = "TERRA_DONATION"
	EnvRequestTimeout   = "TERRA_REQUEST_TIMEOUT_SECONDS"
)

// ApplyEnv overlays TERRA_* environment variables on top of cfg.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMnemonic); ok && v != "" {
		cfg.Mnemonic = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvChainID); ok && v != "" {
		cfg.ChainID = v
	}
	if v, ok := lookup(EnvLCDURL); ok && v != "" {
		cfg.LCDURL = strings.TrimSuffix(v, "/")
	}
	if v, ok := lookup(EnvGRPCURLs); ok && v != "" {
		var urls []string
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		cfg.GRPCURLs = urls
	}
	if v, ok := lookup(EnvGasPrice); ok && v != "" {
		cfg.DefaultGasPrices = v
	}
	if v, ok := lookup(EnvGasPriceEndpoint); ok && v != "" {
		cfg.GasPriceEndpoint = v
	}
	if v, ok := lookup(EnvGasPriceDenom); ok && v != "" {
		cfg.GasPriceDenom = v
	}
	if v, ok := lookup(EnvGasAdjustment); ok && v != "" {
		adj, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvGasAdjustment, v, err)
		}
		cfg.GasAdjustment = adj
	}
	if v, ok := lookup(EnvDonation); ok && v != "" {
		cfg.DonationAddress = v
	}
	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		secs, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvRequestTimeout, v, err)
		}
		cfg.RequestTimeoutSeconds = secs
	}
	return nil
}
