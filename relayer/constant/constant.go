package constant

import "os"

// <NodeDir>/                    (e.g., /home/shuttle/.shuttle)
// └── config/
//	└── shuttle_config.json

const (
	NodeDir = ".shuttle"

	ConfigSubdir   = "config"
	ConfigFileName = "shuttle_config.json"
)

var DefaultNodeHome = os.ExpandEnv("$HOME/") + NodeDir

// Relay policy defaults. Deposits arrive with 18 decimals and are relayed
// with 6, so the lowest 12 digits are dropped and anything shorter than
// 13 digits rounds down to nothing.
const (
	DefaultDecimalShift    = 12
	DefaultMinAmountDigits = 13

	// DefaultTaxGasSurcharge covers the extra gas burned by tax-bearing transfers.
	DefaultTaxGasSurcharge = uint64(100_000)

	// DefaultDuplicateTxCode is sdkerrors.ErrTxInMempoolCache: the tx is already
	// in the node's mempool cache.
	DefaultDuplicateTxCode = uint32(19)

	DefaultRequestTimeoutSeconds = 15
)
