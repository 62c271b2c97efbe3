package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pushchain/terra-shuttle/relayer/config"
	"github.com/pushchain/terra-shuttle/relayer/constant"
	"github.com/pushchain/terra-shuttle/relayer/core"
	"github.com/pushchain/terra-shuttle/relayer/gasprice"
	"github.com/pushchain/terra-shuttle/relayer/logger"
	"github.com/pushchain/terra-shuttle/relayer/signer"
	"github.com/pushchain/terra-shuttle/relayer/terracore"
)

// app bundles the wired relayer with the resources it owns.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	relayer *core.Relayer
	client  *terracore.Client
}

func (a *app) Close() error {
	return a.client.Close()
}

// loadConfig reads <home>/config/shuttle_config.json when present, falls
// back to the embedded defaults, then overlays TERRA_* variables.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	home, err := cmd.Flags().GetString(flagHome)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(home)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.LoadDefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config (%s): %w",
			filepath.Join(home, constant.ConfigSubdir, constant.ConfigFileName), err)
	}
	return cfg, nil
}

// newApp wires the ledger client, treasury, oracle and signer into a relayer.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logger.Init(cfg)

	client, err := terracore.New(cfg.GRPCURLs, log)
	if err != nil {
		return nil, err
	}

	wallet, err := signer.New(cfg, client, log)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	relayer, err := core.NewRelayer(cfg, core.Deps{
		Ledger:    client,
		Taxes:     terracore.NewTreasury(cfg.LCDURL, cfg.RequestTimeout(), log),
		GasPrices: gasprice.New(cfg.GasPriceEndpoint, cfg.GasPriceDenom, cfg.RequestTimeout(), log),
		Wallet:    wallet,
	}, log)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &app{cfg: cfg, log: log, relayer: relayer, client: client}, nil
}
