package types

// AssetKind classifies how a deposit is paid out on the destination ledger.
type AssetKind int

const (
	AssetKindUnknown AssetKind = iota
	// AssetKindNative is a ledger-native denom paid with a bank transfer.
	AssetKindNative
	// AssetKindContract is a token contract that already holds the funds.
	AssetKindContract
	// AssetKindWrapped is a wrapped token minted by its contract on relay.
	AssetKindWrapped
)

func (k AssetKind) String() string {
	switch k {
	case AssetKindNative:
		return "native"
	case AssetKindContract:
		return "contract"
	case AssetKindWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// AssetInfo describes the destination asset of a deposit. Exactly one of
// Denom or ContractAddress is expected to be set; Denom wins otherwise.
type AssetInfo struct {
	Denom           string `json:"denom,omitempty"`
	ContractAddress string `json:"contract_address,omitempty"`
	IsEthAsset      bool   `json:"is_eth_asset,omitempty"`
}

// Kind returns the payout variant of the asset.
func (a AssetInfo) Kind() AssetKind {
	switch {
	case a.Denom != "":
		return AssetKindNative
	case a.ContractAddress != "" && a.IsEthAsset:
		return AssetKindWrapped
	case a.ContractAddress != "":
		return AssetKindContract
	default:
		return AssetKindUnknown
	}
}

// DepositRecord is one observed source-chain deposit that should be relayed.
// Amount is the raw 18-decimal integer as a decimal string.
type DepositRecord struct {
	To     string    `json:"to"`
	Amount string    `json:"amount"`
	Asset  AssetInfo `json:"terra_asset_info"`
}
