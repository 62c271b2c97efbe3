package core

import (
	"context"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
	"github.com/pushchain/terra-shuttle/relayer/metrics"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

// Drop reasons reported to metrics.
const (
	dropShortAmount = "short_amount"
	dropNonDigit    = "non_digit_amount"
	dropZeroAmount  = "zero_amount"
	dropUnknown     = "unknown_asset"
	dropBadDenom    = "invalid_denom"
	dropTaxed       = "consumed_by_tax"
)

// BuildResult is the outcome of one batch: messages to send and the tax that
// the fee must cover.
type BuildResult struct {
	Msgs []types.OutboundMessage
	Tax  *types.TaxAccumulator
}

// plannedRecord is a record that passed the offline checks.
type plannedRecord struct {
	index     int
	recipient string
	amount    math.Int
	asset     types.AssetInfo
}

// taxParams are the ledger tax parameters gathered for one batch.
type taxParams struct {
	rate math.LegacyDec
	caps map[string]math.Int
}

// MessageBuilder turns deposit records into outbound messages.
type MessageBuilder struct {
	policy Policy
	sender string
	taxes  TaxQuerier
	logger zerolog.Logger
}

func NewMessageBuilder(policy Policy, sender string, taxes TaxQuerier, logger zerolog.Logger) *MessageBuilder {
	return &MessageBuilder{
		policy: policy,
		sender: sender,
		taxes:  taxes,
		logger: logger.With().Str("component", "message_builder").Logger(),
	}
}

// Build converts records into messages. It returns nil, nil when no record
// yields a message.
func (b *MessageBuilder) Build(ctx context.Context, records []types.DepositRecord) (*BuildResult, error) {
	planned := b.plan(records)
	if len(planned) == 0 {
		return nil, nil
	}
	return b.emit(ctx, planned)
}

// plan applies the checks that need no network access: recipient
// substitution, amount format and rescaling, asset kind and denom.
func (b *MessageBuilder) plan(records []types.DepositRecord) []plannedRecord {
	planned := make([]plannedRecord, 0, len(records))
	for i, rec := range records {
		log := b.logger.With().Int("record", i).Str("to", rec.To).Str("amount", rec.Amount).Logger()

		recipient := rec.To
		if !types.ValidateAddress(recipient, b.policy.Bech32Prefix) {
			log.Warn().Str("donation", b.policy.DonationAddress).Msg("invalid recipient; paying donation address")
			metrics.RecordDonationRedirect()
			recipient = b.policy.DonationAddress
		}

		if len(rec.Amount) < b.policy.MinAmountDigits {
			log.Info().Int("min_digits", b.policy.MinAmountDigits).Msg("amount too short; skipping record")
			metrics.RecordDropped(dropShortAmount)
			continue
		}
		if !isDigits(rec.Amount) {
			log.Warn().Msg("amount is not a decimal integer; skipping record")
			metrics.RecordDropped(dropNonDigit)
			continue
		}

		amount, ok := math.NewIntFromString(rec.Amount[:len(rec.Amount)-b.policy.DecimalShift])
		if !ok || !amount.IsPositive() {
			log.Info().Msg("rescaled amount is zero; skipping record")
			metrics.RecordDropped(dropZeroAmount)
			continue
		}

		if rec.Asset.Kind() == types.AssetKindUnknown {
			log.Warn().Msg("record has no denom or contract; skipping record")
			metrics.RecordDropped(dropUnknown)
			continue
		}
		if rec.Asset.Kind() == types.AssetKindNative {
			if err := sdk.ValidateDenom(rec.Asset.Denom); err != nil {
				log.Warn().Err(err).Str("denom", rec.Asset.Denom).Msg("invalid denom; skipping record")
				metrics.RecordDropped(dropBadDenom)
				continue
			}
		}

		planned = append(planned, plannedRecord{
			index:     i,
			recipient: recipient,
			amount:    amount,
			asset:     rec.Asset,
		})
	}
	return planned
}

// nativeDenoms returns the distinct native denoms in planned, sorted.
func nativeDenoms(planned []plannedRecord) []string {
	seen := make(map[string]struct{})
	var denoms []string
	for _, p := range planned {
		if p.asset.Kind() != types.AssetKindNative {
			continue
		}
		if _, ok := seen[p.asset.Denom]; ok {
			continue
		}
		seen[p.asset.Denom] = struct{}{}
		denoms = append(denoms, p.asset.Denom)
	}
	sort.Strings(denoms)
	return denoms
}

// resolveTaxes fetches the rate once and each cap once, concurrently.
func (b *MessageBuilder) resolveTaxes(ctx context.Context, denoms []string) (*taxParams, error) {
	params := &taxParams{caps: make(map[string]math.Int, len(denoms))}
	caps := make([]math.Int, len(denoms))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rate, err := b.taxes.TaxRate(gctx)
		if err != nil {
			return relayerrors.NewTaxQueryError("failed to fetch tax rate", err)
		}
		params.rate = rate
		return nil
	})
	for i, denom := range denoms {
		g.Go(func() error {
			c, err := b.taxes.TaxCap(gctx, denom)
			if err != nil {
				return relayerrors.NewTaxQueryError("failed to fetch tax cap", err).WithContext("denom", denom)
			}
			caps[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, denom := range denoms {
		params.caps[denom] = caps[i]
	}
	return params, nil
}

// emit resolves taxes for the planned records and produces the messages.
func (b *MessageBuilder) emit(ctx context.Context, planned []plannedRecord) (*BuildResult, error) {
	var params *taxParams
	if denoms := nativeDenoms(planned); len(denoms) > 0 {
		var err error
		if params, err = b.resolveTaxes(ctx, denoms); err != nil {
			return nil, err
		}
	}

	result := &BuildResult{Tax: types.NewTaxAccumulator()}
	for _, p := range planned {
		var msg types.OutboundMessage
		switch p.asset.Kind() {
		case types.AssetKindNative:
			tax := ComputeTax(p.amount, params.rate, params.caps[p.asset.Denom])
			relay := p.amount.Sub(tax)
			if !relay.IsPositive() {
				b.logger.Info().
					Int("record", p.index).
					Str("amount", p.amount.String()).
					Str("tax", tax.String()).
					Msg("amount does not cover transfer tax; skipping record")
				metrics.RecordDropped(dropTaxed)
				continue
			}
			result.Tax.Add(sdk.NewCoin(p.asset.Denom, tax))
			msg = types.Transfer{From: b.sender, To: p.recipient, Coin: sdk.NewCoin(p.asset.Denom, relay)}
		case types.AssetKindContract:
			msg = types.ContractTransfer{From: b.sender, Contract: p.asset.ContractAddress, Recipient: p.recipient, Amount: p.amount}
		case types.AssetKindWrapped:
			msg = types.ContractMint{From: b.sender, Contract: p.asset.ContractAddress, Recipient: p.recipient, Amount: p.amount}
		default:
			continue
		}

		b.logger.Debug().
			Int("record", p.index).
			Str("kind", msg.Kind()).
			Str("recipient", p.recipient).
			Msg("emitting message")
		metrics.RecordMessage(msg.Kind())
		result.Msgs = append(result.Msgs, msg)
	}

	if len(result.Msgs) == 0 {
		return nil, nil
	}
	return result, nil
}

// ComputeTax returns ceil(min(cap, rate*amount)).
func ComputeTax(amount math.Int, rate math.LegacyDec, capAmt math.Int) math.Int {
	tax := rate.MulInt(amount)
	if capDec := capAmt.ToLegacyDec(); tax.GT(capDec) {
		tax = capDec
	}
	return tax.Ceil().TruncateInt()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
