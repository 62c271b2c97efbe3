package signer

import (
	"fmt"
	"strings"

	txsigning "cosmossdk.io/x/tx/signing"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/std"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/gogoproto/proto"
)

// NewInterfaceRegistry creates a registry knowing every message, account and
// key type the relayer signs or decodes. Address codecs use prefix.
func NewInterfaceRegistry(prefix string) (codectypes.InterfaceRegistry, error) {
	registry, err := codectypes.NewInterfaceRegistryWithOptions(codectypes.InterfaceRegistryOptions{
		ProtoFiles: proto.HybridResolver,
		SigningOptions: txsigning.Options{
			AddressCodec:          address.NewBech32Codec(prefix),
			ValidatorAddressCodec: address.NewBech32Codec(prefix + "valoper"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interface registry: %w", err)
	}

	std.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	wasmtypes.RegisterInterfaces(registry)

	return registry, nil
}

// HDPath returns the BIP44 derivation path of the first account for coinType.
func HDPath(coinType uint32) string {
	return hd.CreateHDPath(coinType, 0, 0).String()
}

// newMemoryKeyring imports mnemonic under keyName into an in-memory keyring.
// The secret never touches disk.
func newMemoryKeyring(cdc codec.Codec, keyName, mnemonic string, coinType uint32) (keyring.Keyring, *keyring.Record, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if mnemonic == "" {
		return nil, nil, fmt.Errorf("mnemonic is empty")
	}
	if keyName == "" {
		return nil, nil, fmt.Errorf("key name is empty")
	}

	kr := keyring.NewInMemory(cdc)
	record, err := kr.NewAccount(keyName, mnemonic, "", HDPath(coinType), hd.Secp256k1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to import key %s: %w", keyName, err)
	}
	return kr, record, nil
}
