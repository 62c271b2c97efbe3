package core

import (
	"context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pushchain/terra-shuttle/relayer/config"
	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
	"github.com/pushchain/terra-shuttle/relayer/metrics"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

// Deps are the external collaborators of a Relayer.
type Deps struct {
	Ledger    Ledger
	Taxes     TaxQuerier
	GasPrices GasPriceSource
	Wallet    Wallet
}

// Relayer turns deposit batches into signed ledger transactions, submits
// them and reports their status. It holds no mutable state; callers that
// share a sequence must serialize Build and Relay.
type Relayer struct {
	policy      Policy
	timeout     time.Duration
	wallet      Wallet
	oracle      GasPriceSource
	builder     *MessageBuilder
	assembler   *Assembler
	broadcaster *Broadcaster
	lookup      *Lookup
	retry       *relayerrors.RetryConfig
	logger      zerolog.Logger
}

// NewRelayer wires a Relayer from a validated config.
func NewRelayer(cfg *config.Config, deps Deps, logger zerolog.Logger) (*Relayer, error) {
	if deps.Ledger == nil || deps.Taxes == nil || deps.GasPrices == nil || deps.Wallet == nil {
		return nil, relayerrors.NewConfigError("relayer requires ledger, taxes, gas prices and wallet")
	}

	policy, err := PolicyFromConfig(cfg)
	if err != nil {
		return nil, relayerrors.WrapRelayError(err, relayerrors.ErrCodeConfig, "invalid relay policy")
	}

	defaults, err := cfg.DefaultGasPriceCoins()
	if err != nil {
		return nil, relayerrors.WrapRelayError(err, relayerrors.ErrCodeConfig, "invalid default gas prices")
	}

	log := logger.With().Str("component", "relayer").Logger()
	return &Relayer{
		policy:      policy,
		timeout:     cfg.RequestTimeout(),
		wallet:      deps.Wallet,
		oracle:      deps.GasPrices,
		builder:     NewMessageBuilder(policy, deps.Wallet.Address(), deps.Taxes, logger),
		assembler:   NewAssembler(deps.Wallet, deps.Ledger, policy, defaults, logger),
		broadcaster: NewBroadcaster(deps.Ledger, policy.DuplicateTxCode, logger),
		lookup:      NewLookup(deps.Ledger, logger),
		retry:       relayerrors.DefaultRetryConfig(),
		logger:      log,
	}, nil
}

// Address returns the relayer's account address.
func (r *Relayer) Address() string {
	return r.wallet.Address()
}

func (r *Relayer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Build converts records into one signed transaction at sequence. It
// returns nil, nil when no record yields a message. A batch that planning
// empties makes no ledger call at all. A batch of native records only
// fetches gas prices once emission leaves at least one message, so one
// whose every record is consumed by tax never prices or signs.
func (r *Relayer) Build(ctx context.Context, records []types.DepositRecord, sequence uint64) (*types.SignedTransaction, error) {
	start := time.Now()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	planned := r.builder.plan(records)
	if len(planned) == 0 {
		r.logger.Info().Int("records", len(records)).Msg("no eligible records; nothing to build")
		metrics.RecordBuild("noop", time.Since(start))
		return nil, nil
	}

	result, gasPrices, err := r.emitAndPrice(ctx, planned)
	if err != nil {
		metrics.RecordBuild("error", time.Since(start))
		return nil, relayerrors.FromDeadline(ctx, err, "build timed out")
	}
	if result == nil {
		r.logger.Info().Int("records", len(records)).Msg("every record consumed by tax; nothing to build")
		metrics.RecordBuild("noop", time.Since(start))
		return nil, nil
	}

	signed, err := r.assembler.Assemble(ctx, result.Msgs, gasPrices, sequence, result.Tax)
	if err != nil {
		metrics.RecordBuild("error", time.Since(start))
		return nil, relayerrors.FromDeadline(ctx, err, "build timed out")
	}

	metrics.RecordBuild("built", time.Since(start))
	r.logger.Info().
		Int("records", len(records)).
		Int("messages", len(result.Msgs)).
		Str("tx_hash", signed.TxHash).
		Dur("took", time.Since(start)).
		Msg("batch built")
	return signed, nil
}

// emitAndPrice runs emission and the gas price fetch. Contract records
// always yield a message, so with one present both run concurrently.
// Otherwise prices are fetched only if emission produced something.
func (r *Relayer) emitAndPrice(ctx context.Context, planned []plannedRecord) (*BuildResult, sdk.DecCoins, error) {
	if !hasContractRecord(planned) {
		result, err := r.builder.emit(ctx, planned)
		if err != nil || result == nil {
			return nil, nil, err
		}
		return result, r.oracle.GasPrices(ctx), nil
	}

	var (
		result    *BuildResult
		gasPrices sdk.DecCoins
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = r.builder.emit(gctx, planned)
		return err
	})
	g.Go(func() error {
		gasPrices = r.oracle.GasPrices(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return result, gasPrices, nil
}

func hasContractRecord(planned []plannedRecord) bool {
	for _, p := range planned {
		if p.asset.Kind() != types.AssetKindNative {
			return true
		}
	}
	return false
}

// Relay broadcasts a previously built transaction.
func (r *Relayer) Relay(ctx context.Context, tx *types.SignedTransaction) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return relayerrors.FromDeadline(ctx, r.broadcaster.Relay(ctx, tx), "broadcast timed out")
}

// GetTransaction looks a transaction up by hash; nil, nil means unknown.
func (r *Relayer) GetTransaction(ctx context.Context, hash string) (*types.TxInfo, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	info, err := r.lookup.GetTransaction(ctx, hash)
	if err != nil {
		return nil, relayerrors.FromDeadline(ctx, err, "lookup timed out")
	}
	return info, nil
}

// LoadSequence returns the relayer account's current sequence.
func (r *Relayer) LoadSequence(ctx context.Context) (uint64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var sequence uint64
	err := relayerrors.RetryWithConfig(ctx, func() error {
		_, seq, err := r.wallet.AccountInfo(ctx)
		if err != nil {
			return relayerrors.NewRPCError("failed to load account sequence", err)
		}
		sequence = seq
		return nil
	}, r.retry)
	if err != nil {
		err = relayerrors.FromDeadline(ctx, err, "load sequence timed out")
		return 0, relayerrors.Wrapf(err, "load sequence for %s", r.wallet.Address())
	}
	return sequence, nil
}
