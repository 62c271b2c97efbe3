package types

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// OutboundMessage is one message of the outbound transaction. The set of
// implementations is closed: Transfer, ContractTransfer and ContractMint.
type OutboundMessage interface {
	// SDKMsg converts the message into the ledger message that gets signed.
	SDKMsg() (sdk.Msg, error)
	// Kind names the variant for logs and metrics.
	Kind() string

	isOutboundMessage()
}

// Transfer sends a native coin from the relayer to the recipient.
type Transfer struct {
	From string
	To   string
	Coin sdk.Coin
}

// ContractTransfer moves tokens held by the relayer through a token contract.
type ContractTransfer struct {
	From      string
	Contract  string
	Recipient string
	Amount    math.Int
}

// ContractMint mints wrapped tokens to the recipient through the token contract.
type ContractMint struct {
	From      string
	Contract  string
	Recipient string
	Amount    math.Int
}

func (Transfer) isOutboundMessage()         {}
func (ContractTransfer) isOutboundMessage() {}
func (ContractMint) isOutboundMessage()     {}

func (Transfer) Kind() string         { return "transfer" }
func (ContractTransfer) Kind() string { return "contract_transfer" }
func (ContractMint) Kind() string     { return "contract_mint" }

func (m Transfer) SDKMsg() (sdk.Msg, error) {
	if err := m.Coin.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transfer coin: %w", err)
	}
	return &banktypes.MsgSend{
		FromAddress: m.From,
		ToAddress:   m.To,
		Amount:      sdk.NewCoins(m.Coin),
	}, nil
}

func (m ContractTransfer) SDKMsg() (sdk.Msg, error) {
	return executeContract(m.From, m.Contract, "transfer", m.Recipient, m.Amount)
}

func (m ContractMint) SDKMsg() (sdk.Msg, error) {
	return executeContract(m.From, m.Contract, "mint", m.Recipient, m.Amount)
}

// cw20Payout is the body shared by the cw20 transfer and mint calls.
type cw20Payout struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

func executeContract(sender, contract, action, recipient string, amount math.Int) (sdk.Msg, error) {
	if amount.IsNil() {
		return nil, fmt.Errorf("%s amount is nil", action)
	}
	body, err := json.Marshal(map[string]cw20Payout{
		action: {Recipient: recipient, Amount: amount.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", action, err)
	}
	return &wasmtypes.MsgExecuteContract{
		Sender:   sender,
		Contract: contract,
		Msg:      wasmtypes.RawContractMessage(body),
	}, nil
}

// ToSDKMsgs converts a batch of outbound messages into ledger messages.
func ToSDKMsgs(msgs []OutboundMessage) ([]sdk.Msg, error) {
	out := make([]sdk.Msg, 0, len(msgs))
	for i, m := range msgs {
		switch m.(type) {
		case Transfer, ContractTransfer, ContractMint:
		default:
			return nil, fmt.Errorf("unsupported outbound message %T at index %d", m, i)
		}
		msg, err := m.SDKMsg()
		if err != nil {
			return nil, fmt.Errorf("failed to convert message %d: %w", i, err)
		}
		out = append(out, msg)
	}
	return out, nil
}
