package model

import "encoding/json"

// WebhookBatch is one chainhook delivery split into undo and apply sequences.
// DeliveryID equals ChainhookUUID, or a generated id when the sender omitted it.
type WebhookBatch struct {
	ChainhookUUID string
	DeliveryID    string
	Apply         []BatchItem
	Undo          []BatchItem
}

// BatchItem is either a parsed event or the reason the element was rejected.
type BatchItem struct {
	Event ChainEvent
	Err   error
}

// RawEvent is the wire shape of a single chainhook event.
type RawEvent struct {
	Type                  string            `json:"type"`
	TransactionIdentifier *TransactionIdent `json:"transaction_identifier"`
	BlockIdentifier       *BlockIdent       `json:"block_identifier"`
	ContractCall          *RawContractCall  `json:"contract_call"`
	AssetIdentifier       string            `json:"asset_identifier"`
	Amount                json.RawMessage   `json:"amount"`
	Sender                string            `json:"sender"`
	Recipient             string            `json:"recipient"`
	Value                 json.RawMessage   `json:"value"`
	ContractIdentifier    string            `json:"contract_identifier"`
}

type TransactionIdent struct {
	Hash string `json:"hash"`
}

type BlockIdent struct {
	Index *json.Number `json:"index"`
	Hash  string       `json:"hash,omitempty"`
}

type RawContractCall struct {
	ContractIdentifier string   `json:"contract_identifier"`
	FunctionName       string   `json:"function_name"`
	FunctionArgs       []string `json:"function_args"`
}

// RawEventFields lists the keys RawEvent models; everything else lands in ChainEvent.Extra.
var RawEventFields = []string{
	"type",
	"transaction_identifier",
	"block_identifier",
	"contract_call",
	"asset_identifier",
	"amount",
	"sender",
	"recipient",
	"value",
	"contract_identifier",
}

// WebhookResponse is the success body returned to the chainhook sender.
type WebhookResponse struct {
	Success   bool `json:"success"`
	Processed int  `json:"processed"`
	Undone    int  `json:"undone"`
}

// WebhookStatus is returned by the webhook status probe.
type WebhookStatus struct {
	Status   string `json:"status"`
	Endpoint string `json:"endpoint"`
	Message  string `json:"message"`
}
