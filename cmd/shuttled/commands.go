package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkversion "github.com/cosmos/cosmos-sdk/version"
	"github.com/spf13/cobra"

	"github.com/pushchain/terra-shuttle/relayer/api"
	"github.com/pushchain/terra-shuttle/relayer/config"
	"github.com/pushchain/terra-shuttle/relayer/constant"
	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
	"github.com/pushchain/terra-shuttle/relayer/metrics"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

const (
	flagRecords  = "records"
	flagSequence = "sequence"
	flagTx       = "tx"
)

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		initCmd(),
		startCmd(),
		buildCmd(),
		broadcastCmd(),
		txCmd(),
		sequenceCmd(),
		versionCmd(),
	)
}

func initCmd() *cobra.Command {
	var donation string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to the home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			if err := config.ApplyEnv(cfg); err != nil {
				return err
			}
			if donation != "" {
				cfg.DonationAddress = donation
			}
			if err := config.Save(cfg, home); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(home, constant.ConfigSubdir, constant.ConfigFileName))
			return nil
		},
	}
	cmd.Flags().StringVar(&donation, "donation", "", "fallback recipient for malformed destinations")
	return cmd
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the relay API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			metrics.Register(a.log)

			server := api.NewServer(a.relayer, a.log, a.cfg.QueryServerPort)
			if err := server.Start(); err != nil {
				return err
			}
			a.log.Info().Str("address", a.relayer.Address()).Msg("shuttle relayer started")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			a.log.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Stop(ctx)
		},
	}
}

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and sign a transaction from a JSON file of deposit records",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(flagRecords)
			var records []types.DepositRecord
			if err := readJSONFile(path, "records", &records); err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			sequence, err := sequenceFromFlag(ctx, cmd, a)
			if err != nil {
				return err
			}

			tx, err := a.relayer.Build(ctx, records, sequence)
			if err != nil {
				return err
			}
			if tx == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "no eligible records; nothing to sign")
				return nil
			}
			return printJSON(cmd, tx)
		},
	}
	cmd.Flags().String(flagRecords, "", "path to a JSON array of deposit records")
	cmd.Flags().Int64(flagSequence, -1, "account sequence to sign with (default: query the ledger)")
	_ = cmd.MarkFlagRequired(flagRecords)
	return cmd
}

func broadcastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Broadcast a transaction produced by build",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(flagTx)
			var tx types.SignedTransaction
			if err := readJSONFile(path, "transaction", &tx); err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.relayer.Relay(cmd.Context(), &tx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tx.TxHash)
			return nil
		},
	}
	cmd.Flags().String(flagTx, "", "path to a signed transaction JSON file")
	_ = cmd.MarkFlagRequired(flagTx)
	return cmd
}

func txCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Look up a transaction by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.relayer.GetTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if info == nil {
				return fmt.Errorf("transaction %s not found", args[0])
			}
			return printJSON(cmd, info)
		},
	}
}

func sequenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sequence",
		Short: "Print the relayer account's current sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			seq, err := a.relayer.LoadSequence(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", a.relayer.Address(), seq)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print shuttled version info",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", sdkversion.Name)
			fmt.Fprintf(out, "Version:    %s\n", sdkversion.Version)
			fmt.Fprintf(out, "Commit:     %s\n", sdkversion.Commit)
			fmt.Fprintf(out, "Build Tags: %s\n", sdkversion.BuildTags)
		},
	}
}

func sequenceFromFlag(ctx context.Context, cmd *cobra.Command, a *app) (uint64, error) {
	seq, err := cmd.Flags().GetInt64(flagSequence)
	if err != nil {
		return 0, err
	}
	if seq >= 0 {
		return uint64(seq), nil
	}
	return a.relayer.LoadSequence(ctx)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSONFile decodes the JSON document at path into v.
func readJSONFile(path, what string, v interface{}) error {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return relayerrors.Wrapf(err, "failed to read %s", what)
	}
	return relayerrors.Wrap(json.Unmarshal(raw, v), "failed to parse "+what)
}
