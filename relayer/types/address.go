package types

import (
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// ValidateAddress reports whether addr is a bech32 address with the given
// prefix and a 20-byte (account) or 32-byte (contract) payload.
func ValidateAddress(addr, prefix string) bool {
	if addr == "" {
		return false
	}
	hrp, bz, err := bech32.DecodeAndConvert(addr)
	if err != nil {
		return false
	}
	if hrp != prefix {
		return false
	}
	return len(bz) == 20 || len(bz) == 32
}
