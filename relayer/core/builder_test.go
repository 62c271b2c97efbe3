package core

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
	"github.com/pushchain/terra-shuttle/relayer/types"
)

const twoUnits = "2000000000000000000" // 2.0 at 18 decimals

func newTestBuilder(t *testing.T) (*MessageBuilder, *mockTaxes, string) {
	t.Helper()
	taxes := &mockTaxes{}
	sender := testAddress(t, 0xaa)
	return NewMessageBuilder(testPolicy(t), sender, taxes, zerolog.Nop()), taxes, sender
}

func expectTaxes(taxes *mockTaxes, rate string, caps map[string]int64) {
	taxes.On("TaxRate", mock.Anything).Return(math.LegacyMustNewDecFromStr(rate), nil).Once()
	for denom, c := range caps {
		taxes.On("TaxCap", mock.Anything, denom).Return(math.NewInt(c), nil).Once()
	}
}

func TestBuild_InvalidRecipientPaysDonation(t *testing.T) {
	b, taxes, sender := newTestBuilder(t)
	expectTaxes(taxes, "0.005", map[string]int64{"uusd": 1000000})

	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: "not-a-valid-address", Amount: twoUnits, Asset: types.AssetInfo{Denom: "uusd"}},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Msgs, 1)

	transfer, ok := result.Msgs[0].(types.Transfer)
	require.True(t, ok)
	assert.Equal(t, sender, transfer.From)
	assert.Equal(t, b.policy.DonationAddress, transfer.To)
	assert.Equal(t, "uusd", transfer.Coin.Denom)
	assert.Equal(t, "1990000", transfer.Coin.Amount.String())
	assert.Equal(t, "10000uusd", result.Tax.Coins().String())

	taxes.AssertExpectations(t)
}

func TestBuild_RelayPlusTaxEqualsAmount(t *testing.T) {
	b, taxes, _ := newTestBuilder(t)
	expectTaxes(taxes, "0.00123", map[string]int64{"uusd": 1000000})

	to := testAddress(t, 1)
	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: to, Amount: "123456789000000000000", Asset: types.AssetInfo{Denom: "uusd"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Msgs, 1)

	transfer := result.Msgs[0].(types.Transfer)
	assert.Equal(t, to, transfer.To)
	total := transfer.Coin.Amount.Add(result.Tax.AmountOf("uusd"))
	assert.Equal(t, "123456789", total.String())
	assert.True(t, result.Tax.AmountOf("uusd").LTE(math.NewInt(1000000)))
}

func TestBuild_SkipsIneligibleRecords(t *testing.T) {
	b, taxes, _ := newTestBuilder(t)
	to := testAddress(t, 1)

	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: to, Amount: "999999999999", Asset: types.AssetInfo{Denom: "uusd"}},  // 12 digits
		{To: to, Amount: "12345678901x3", Asset: types.AssetInfo{Denom: "uusd"}}, // not digits
		{To: to, Amount: "0000000000000", Asset: types.AssetInfo{Denom: "uusd"}}, // rescales to zero
		{To: to, Amount: twoUnits, Asset: types.AssetInfo{}},                     // unknown asset
		{To: to, Amount: "", Asset: types.AssetInfo{ContractAddress: testAddress(t, 9)}},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
	taxes.AssertNotCalled(t, "TaxRate", mock.Anything)
	taxes.AssertNotCalled(t, "TaxCap", mock.Anything, mock.Anything)
}

func TestBuild_InvalidDenomSkipsOnlyThatRecord(t *testing.T) {
	b, taxes, _ := newTestBuilder(t)
	expectTaxes(taxes, "0.005", map[string]int64{"uusd": 1000000})
	to := testAddress(t, 1)

	var (
		result *BuildResult
		err    error
	)
	require.NotPanics(t, func() {
		result, err = b.Build(context.Background(), []types.DepositRecord{
			{To: to, Amount: twoUnits, Asset: types.AssetInfo{Denom: "ab"}},
			{To: to, Amount: twoUnits, Asset: types.AssetInfo{Denom: "u usd"}},
			{To: to, Amount: twoUnits, Asset: types.AssetInfo{Denom: "1usd"}},
			{To: to, Amount: twoUnits, Asset: types.AssetInfo{Denom: "uusd"}},
		})
	})
	require.NoError(t, err)
	require.Len(t, result.Msgs, 1)
	assert.Equal(t, "1990000uusd", result.Msgs[0].(types.Transfer).Coin.String())
	assert.Equal(t, "10000uusd", result.Tax.Coins().String())

	taxes.AssertExpectations(t)
	taxes.AssertNotCalled(t, "TaxCap", mock.Anything, "ab")
}

func TestBuild_OnlyInvalidDenomsIsNoop(t *testing.T) {
	b, taxes, _ := newTestBuilder(t)

	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: testAddress(t, 1), Amount: twoUnits, Asset: types.AssetInfo{Denom: "ab"}},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
	taxes.AssertNotCalled(t, "TaxRate", mock.Anything)
}

func TestBuild_ZeroDecimalShiftRelaysRawAmount(t *testing.T) {
	policy := testPolicy(t)
	policy.DecimalShift = 0
	policy.MinAmountDigits = 1
	b := NewMessageBuilder(policy, testAddress(t, 0xaa), &mockTaxes{}, zerolog.Nop())

	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: testAddress(t, 1), Amount: "7", Asset: types.AssetInfo{ContractAddress: testAddress(t, 9)}},
	})
	require.NoError(t, err)
	require.Len(t, result.Msgs, 1)
	assert.Equal(t, "7", result.Msgs[0].(types.ContractTransfer).Amount.String())
}

func TestBuild_ThirteenDigitsIsEnough(t *testing.T) {
	b, _, _ := newTestBuilder(t)
	token := testAddress(t, 9)

	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: testAddress(t, 1), Amount: "1000000000000", Asset: types.AssetInfo{ContractAddress: token}},
	})
	require.NoError(t, err)
	require.Len(t, result.Msgs, 1)
	assert.Equal(t, "1", result.Msgs[0].(types.ContractTransfer).Amount.String())
}

func TestBuild_ContractAssetsNeedNoTax(t *testing.T) {
	b, taxes, sender := newTestBuilder(t)
	token := testAddress(t, 9)
	wrapped := testAddress(t, 10)
	to := testAddress(t, 1)

	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: to, Amount: twoUnits, Asset: types.AssetInfo{ContractAddress: token}},
		{To: to, Amount: twoUnits, Asset: types.AssetInfo{ContractAddress: wrapped, IsEthAsset: true}},
	})
	require.NoError(t, err)
	require.Len(t, result.Msgs, 2)
	assert.True(t, result.Tax.IsEmpty())

	transfer, ok := result.Msgs[0].(types.ContractTransfer)
	require.True(t, ok)
	assert.Equal(t, sender, transfer.From)
	assert.Equal(t, token, transfer.Contract)
	assert.Equal(t, to, transfer.Recipient)
	assert.Equal(t, "2000000", transfer.Amount.String())

	mint, ok := result.Msgs[1].(types.ContractMint)
	require.True(t, ok)
	assert.Equal(t, wrapped, mint.Contract)

	taxes.AssertNotCalled(t, "TaxRate", mock.Anything)
}

func TestBuild_TaxLookupsDedupedByDenom(t *testing.T) {
	b, taxes, _ := newTestBuilder(t)
	expectTaxes(taxes, "0.005", map[string]int64{"uusd": 1000000, "ukrw": 5000})
	to := testAddress(t, 1)

	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: to, Amount: twoUnits, Asset: types.AssetInfo{Denom: "uusd"}},
		{To: to, Amount: "4000000000000000000", Asset: types.AssetInfo{Denom: "ukrw"}},
		{To: to, Amount: twoUnits, Asset: types.AssetInfo{Denom: "uusd"}},
		{To: to, Amount: twoUnits, Asset: types.AssetInfo{ContractAddress: testAddress(t, 9)}},
	})
	require.NoError(t, err)
	require.Len(t, result.Msgs, 4)

	assert.Equal(t, int64(20000), result.Tax.AmountOf("uusd").Int64())
	assert.Equal(t, int64(5000), result.Tax.AmountOf("ukrw").Int64(), "cap binds")

	taxes.AssertExpectations(t)
	taxes.AssertNumberOfCalls(t, "TaxRate", 1)
	taxes.AssertNumberOfCalls(t, "TaxCap", 2)
}

func TestBuild_AmountConsumedByTaxIsDropped(t *testing.T) {
	b, taxes, _ := newTestBuilder(t)
	expectTaxes(taxes, "1", map[string]int64{"uusd": 1000000})

	result, err := b.Build(context.Background(), []types.DepositRecord{
		{To: testAddress(t, 1), Amount: twoUnits, Asset: types.AssetInfo{Denom: "uusd"}},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestBuild_TaxLookupFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mockTaxes)
	}{
		{
			name: "rate",
			setup: func(m *mockTaxes) {
				m.On("TaxRate", mock.Anything).Return(math.LegacyDec{}, errors.New("lcd down"))
				m.On("TaxCap", mock.Anything, "uusd").Return(math.NewInt(1), nil).Maybe()
			},
		},
		{
			name: "cap",
			setup: func(m *mockTaxes) {
				m.On("TaxRate", mock.Anything).Return(math.LegacyMustNewDecFromStr("0.005"), nil).Maybe()
				m.On("TaxCap", mock.Anything, "uusd").Return(math.Int{}, errors.New("lcd down"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, taxes, _ := newTestBuilder(t)
			tt.setup(taxes)

			_, err := b.Build(context.Background(), []types.DepositRecord{
				{To: testAddress(t, 1), Amount: twoUnits, Asset: types.AssetInfo{Denom: "uusd"}},
			})
			require.Error(t, err)
			assert.True(t, relayerrors.IsRelayError(err, relayerrors.ErrCodeTaxQuery))
			assert.True(t, relayerrors.IsRetryable(err))
		})
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("0123456789"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("12a"))
	assert.False(t, isDigits("-12"))
	assert.False(t, isDigits("１２"))
}
