package core

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/terra-shuttle/relayer/config"
)

type mockTaxes struct {
	mock.Mock
}

func (m *mockTaxes) TaxRate(ctx context.Context) (math.LegacyDec, error) {
	args := m.Called(ctx)
	return args.Get(0).(math.LegacyDec), args.Error(1)
}

func (m *mockTaxes) TaxCap(ctx context.Context, denom string) (math.Int, error) {
	args := m.Called(ctx, denom)
	return args.Get(0).(math.Int), args.Error(1)
}

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) GasPrices(ctx context.Context) sdk.DecCoins {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(sdk.DecCoins)
	}
	return nil
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Simulate(ctx context.Context, txBytes []byte) (*txtypes.SimulateResponse, error) {
	args := m.Called(ctx, txBytes)
	if v := args.Get(0); v != nil {
		return v.(*txtypes.SimulateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLedger) BroadcastTxSync(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error) {
	args := m.Called(ctx, txBytes)
	if v := args.Get(0); v != nil {
		return v.(*sdk.TxResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLedger) GetTx(ctx context.Context, hash string) (*sdk.TxResponse, error) {
	args := m.Called(ctx, hash)
	if v := args.Get(0); v != nil {
		return v.(*sdk.TxResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockWallet struct {
	mock.Mock
	address string
}

func (m *mockWallet) Address() string { return m.address }

func (m *mockWallet) AccountInfo(ctx context.Context) (uint64, uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Get(1).(uint64), args.Error(2)
}

func (m *mockWallet) SimulationTx(msgs []sdk.Msg, sequence uint64) ([]byte, error) {
	args := m.Called(msgs, sequence)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWallet) Sign(ctx context.Context, msgs []sdk.Msg, gasLimit uint64, fee sdk.Coins, accountNumber, sequence uint64) ([]byte, error) {
	args := m.Called(ctx, msgs, gasLimit, fee, accountNumber, sequence)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWallet) TxHash(txBytes []byte) string {
	return "HASH-" + string(txBytes)
}

func testAddress(t *testing.T, fill byte) string {
	t.Helper()
	bz := make([]byte, 20)
	for i := range bz {
		bz[i] = fill
	}
	addr, err := bech32.ConvertAndEncode("terra", bz)
	require.NoError(t, err)
	return addr
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadDefaultConfig()
	require.NoError(t, err)
	cfg.DonationAddress = testAddress(t, 0xd0)
	require.NoError(t, config.Validate(cfg))
	return cfg
}

func testPolicy(t *testing.T) Policy {
	t.Helper()
	p, err := PolicyFromConfig(testConfig(t))
	require.NoError(t, err)
	return p
}

type testDeps struct {
	taxes  *mockTaxes
	oracle *mockOracle
	ledger *mockLedger
	wallet *mockWallet
}

func (d *testDeps) assertExpectations(t *testing.T) {
	d.taxes.AssertExpectations(t)
	d.oracle.AssertExpectations(t)
	d.ledger.AssertExpectations(t)
	d.wallet.AssertExpectations(t)
}

func newTestRelayer(t *testing.T) (*Relayer, *testDeps) {
	t.Helper()
	d := &testDeps{
		taxes:  &mockTaxes{},
		oracle: &mockOracle{},
		ledger: &mockLedger{},
		wallet: &mockWallet{address: testAddress(t, 0xaa)},
	}
	r, err := NewRelayer(testConfig(t), Deps{
		Ledger:    d.ledger,
		Taxes:     d.taxes,
		GasPrices: d.oracle,
		Wallet:    d.wallet,
	}, zerolog.Nop())
	require.NoError(t, err)
	return r, d
}
