package model

import "encoding/json"

// EventKind classifies a chainhook event by its type tag.
type EventKind string

const (
	KindContractCall             EventKind = "contract_call"
	KindFungibleTokenMint        EventKind = "ft_mint_event"
	KindFungibleTokenTransfer    EventKind = "ft_transfer_event"
	KindFungibleTokenBurn        EventKind = "ft_burn_event"
	KindNonFungibleTokenMint     EventKind = "nft_mint_event"
	KindNonFungibleTokenTransfer EventKind = "nft_transfer_event"
	KindNonFungibleTokenBurn     EventKind = "nft_burn_event"
	KindPrintLog                 EventKind = "print_event"
	KindUnknown                  EventKind = "unknown"
)

// Direction tells whether an event is newly applied or rolled back by a reorg.
type Direction string

const (
	DirectionApply Direction = "apply"
	DirectionUndo  Direction = "undo"
)

// ChainEvent is a validated chainhook event. It is never persisted.
type ChainEvent struct {
	Kind          EventKind
	RawType       string
	TransactionID string
	BlockHeight   uint64
	Direction     Direction
	BatchID       string
	Payload       Payload
	// Extra keeps fields the parser does not model.
	Extra map[string]json.RawMessage
}

// Payload is one of the kind-specific payload structs below.
type Payload interface {
	payloadKind() string
}

type ContractCallPayload struct {
	ContractID   string   `json:"contract_identifier"`
	FunctionName string   `json:"function_name"`
	FunctionArgs []string `json:"function_args,omitempty"`
}

// FungibleTokenPayload covers ft mint, transfer and burn events.
type FungibleTokenPayload struct {
	AssetID   string `json:"asset_identifier"`
	Amount    string `json:"amount"`
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// NonFungibleTokenPayload covers nft mint, transfer and burn events.
type NonFungibleTokenPayload struct {
	AssetID   string          `json:"asset_identifier"`
	TokenID   json.RawMessage `json:"value,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	Recipient string          `json:"recipient,omitempty"`
}

// PrintPayload is a contract print log. Repr holds the decoded Clarity repr when the
// value was a hex-serialized Clarity value.
type PrintPayload struct {
	ContractID string          `json:"contract_identifier"`
	Value      json.RawMessage `json:"value,omitempty"`
	Repr       string          `json:"repr,omitempty"`
}

type UnknownPayload struct{}

func (ContractCallPayload) payloadKind() string     { return "contract_call" }
func (FungibleTokenPayload) payloadKind() string    { return "ft" }
func (NonFungibleTokenPayload) payloadKind() string { return "nft" }
func (PrintPayload) payloadKind() string            { return "print" }
func (UnknownPayload) payloadKind() string          { return "unknown" }
