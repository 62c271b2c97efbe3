package signer

import (
	"context"
	"fmt"
	"sync"

	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/rs/zerolog"

	"github.com/pushchain/terra-shuttle/relayer/config"
)

// AccountQuerier resolves on-ledger account state.
type AccountQuerier interface {
	GetAccount(ctx context.Context, address string) (*authtypes.QueryAccountResponse, error)
}

// Signer holds the relayer's signing identity and builds signed transactions.
type Signer struct {
	keyName   string
	keyring   keyring.Keyring
	pubKey    cryptotypes.PubKey
	address   string
	clientCtx client.Context
	accounts  AccountQuerier
	log       zerolog.Logger

	mu sync.Mutex // keyring access
}

// New derives the signing key from cfg.Mnemonic and prepares the tx config.
func New(cfg *config.Config, accounts AccountQuerier, log zerolog.Logger) (*Signer, error) {
	registry, err := NewInterfaceRegistry(cfg.Bech32Prefix)
	if err != nil {
		return nil, err
	}
	cdc := codec.NewProtoCodec(registry)

	kr, record, err := newMemoryKeyring(cdc, cfg.KeyName, cfg.Mnemonic, cfg.CoinType)
	if err != nil {
		return nil, err
	}

	pubKey, err := record.GetPubKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}

	addr, err := bech32.ConvertAndEncode(cfg.Bech32Prefix, pubKey.Address().Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode signer address: %w", err)
	}

	clientCtx, err := createClientContext(registry, cdc, kr, cfg.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create client context: %w", err)
	}

	s := &Signer{
		keyName:   cfg.KeyName,
		keyring:   kr,
		pubKey:    pubKey,
		address:   addr,
		clientCtx: clientCtx,
		accounts:  accounts,
		log:       log.With().Str("component", "signer").Logger(),
	}

	s.log.Info().
		Str("key_name", cfg.KeyName).
		Str("address", addr).
		Str("chain_id", cfg.ChainID).
		Msg("Signer initialized successfully")

	return s, nil
}

// Address returns the relayer's bech32 account address.
func (s *Signer) Address() string {
	return s.address
}

// TxConfig returns the encoder/decoder configuration used for signing.
func (s *Signer) TxConfig() client.TxConfig {
	return s.clientCtx.TxConfig
}

// AccountInfo returns the account number and current sequence of the signer.
func (s *Signer) AccountInfo(ctx context.Context) (uint64, uint64, error) {
	resp, err := s.accounts.GetAccount(ctx, s.address)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query account info: %w", err)
	}
	if resp == nil || resp.Account == nil {
		return 0, 0, fmt.Errorf("account %s not found", s.address)
	}

	var account sdk.AccountI
	if err := s.clientCtx.InterfaceRegistry.UnpackAny(resp.Account, &account); err != nil {
		return 0, 0, fmt.Errorf("failed to unpack account: %w", err)
	}

	s.log.Debug().
		Uint64("account_number", account.GetAccountNumber()).
		Uint64("sequence", account.GetSequence()).
		Msg("Retrieved account info")

	return account.GetAccountNumber(), account.GetSequence(), nil
}

// SimulationTx encodes msgs into a tx carrying the signer's public key and
// an empty signature, as accepted by the simulate endpoint.
func (s *Signer) SimulationTx(msgs []sdk.Msg, sequence uint64) ([]byte, error) {
	txBuilder, err := s.createTxBuilder(msgs, 0, nil)
	if err != nil {
		return nil, err
	}

	sig := signing.SignatureV2{
		PubKey: s.pubKey,
		Data: &signing.SingleSignatureData{
			SignMode: signing.SignMode_SIGN_MODE_DIRECT,
		},
		Sequence: sequence,
	}
	if err := txBuilder.SetSignatures(sig); err != nil {
		return nil, fmt.Errorf("failed to set simulation signature: %w", err)
	}

	txBytes, err := s.clientCtx.TxConfig.TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return nil, fmt.Errorf("failed to encode simulation tx: %w", err)
	}
	return txBytes, nil
}

// Sign builds and signs a tx with the given gas, fee and account state and
// returns its encoded bytes.
func (s *Signer) Sign(
	ctx context.Context,
	msgs []sdk.Msg,
	gasLimit uint64,
	fee sdk.Coins,
	accountNumber uint64,
	sequence uint64,
) ([]byte, error) {
	txBuilder, err := s.createTxBuilder(msgs, gasLimit, fee)
	if err != nil {
		return nil, err
	}

	txFactory := tx.Factory{}.
		WithChainID(s.clientCtx.ChainID).
		WithKeybase(s.keyring).
		WithTxConfig(s.clientCtx.TxConfig).
		WithSignMode(signing.SignMode_SIGN_MODE_DIRECT).
		WithAccountNumber(accountNumber).
		WithSequence(sequence)

	s.mu.Lock()
	err = tx.Sign(ctx, txFactory, s.keyName, txBuilder, true)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction with keyring: %w", err)
	}

	txBytes, err := s.clientCtx.TxConfig.TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	s.log.Debug().
		Uint64("account_number", accountNumber).
		Uint64("sequence", sequence).
		Uint64("gas_limit", gasLimit).
		Str("fee", fee.String()).
		Msg("Transaction signed")

	return txBytes, nil
}

// TxHash returns the hash of txBytes.
func (s *Signer) TxHash(txBytes []byte) string {
	return TxHash(txBytes)
}

// TxHash returns the upper-case hex hash the ledger indexes txBytes under.
func TxHash(txBytes []byte) string {
	return fmt.Sprintf("%X", cmttypes.Tx(txBytes).Hash())
}

func (s *Signer) createTxBuilder(msgs []sdk.Msg, gasLimit uint64, feeAmount sdk.Coins) (client.TxBuilder, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("no messages to sign")
	}

	txBuilder := s.clientCtx.TxConfig.NewTxBuilder()
	if err := txBuilder.SetMsgs(msgs...); err != nil {
		return nil, fmt.Errorf("failed to set messages: %w", err)
	}
	txBuilder.SetGasLimit(gasLimit)
	txBuilder.SetFeeAmount(feeAmount)

	return txBuilder, nil
}

func createClientContext(registry codectypes.InterfaceRegistry, cdc *codec.ProtoCodec, kr keyring.Keyring, chainID string) (client.Context, error) {
	txConfig, err := authtx.NewTxConfigWithOptions(cdc, authtx.ConfigOptions{
		EnabledSignModes: []signing.SignMode{signing.SignMode_SIGN_MODE_DIRECT},
	})
	if err != nil {
		return client.Context{}, err
	}

	return client.Context{}.
		WithCodec(cdc).
		WithInterfaceRegistry(registry).
		WithChainID(chainID).
		WithKeyring(kr).
		WithTxConfig(txConfig), nil
}
