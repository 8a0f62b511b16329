package chainhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"voteRelay/internal/clarity"
	"voteRelay/internal/model"
)

// ErrMalformedPayload is returned when the delivery body is not valid JSON.
var ErrMalformedPayload = errors.New("malformed payload")

var kindTable = map[string]model.EventKind{
	string(model.KindContractCall):             model.KindContractCall,
	string(model.KindFungibleTokenMint):        model.KindFungibleTokenMint,
	string(model.KindFungibleTokenTransfer):    model.KindFungibleTokenTransfer,
	string(model.KindFungibleTokenBurn):        model.KindFungibleTokenBurn,
	string(model.KindNonFungibleTokenMint):     model.KindNonFungibleTokenMint,
	string(model.KindNonFungibleTokenTransfer): model.KindNonFungibleTokenTransfer,
	string(model.KindNonFungibleTokenBurn):     model.KindNonFungibleTokenBurn,
	string(model.KindPrintLog):                 model.KindPrintLog,
}

// Classify maps a raw type tag to its EventKind by exact match.
func Classify(tag string) model.EventKind {
	if kind, ok := kindTable[tag]; ok {
		return kind
	}
	return model.KindUnknown
}

// ParseBatch parses a delivery body. Only invalid JSON is an error: a body that is
// not an object, or whose apply/undo members are not arrays, yields empty sequences.
func ParseBatch(body []byte) (model.WebhookBatch, error) {
	if !json.Valid(body) {
		return model.WebhookBatch{}, fmt.Errorf("%w: invalid json", ErrMalformedPayload)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return model.WebhookBatch{DeliveryID: uuid.NewString()}, nil
	}

	var hook struct {
		UUID string `json:"uuid"`
	}
	if raw, ok := top["chainhook"]; ok {
		_ = json.Unmarshal(raw, &hook)
	}

	batch := model.WebhookBatch{
		ChainhookUUID: hook.UUID,
		DeliveryID:    hook.UUID,
	}
	if batch.DeliveryID == "" {
		batch.DeliveryID = uuid.NewString()
	}

	batch.Undo = parseSequence(top["undo"], model.DirectionUndo, batch.DeliveryID)
	batch.Apply = parseSequence(top["apply"], model.DirectionApply, batch.DeliveryID)
	return batch, nil
}

func parseSequence(raw json.RawMessage, direction model.Direction, batchID string) []model.BatchItem {
	if len(raw) == 0 {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	items := make([]model.BatchItem, 0, len(elems))
	for _, elem := range elems {
		event, err := ParseEvent(elem, direction, batchID)
		items = append(items, model.BatchItem{Event: event, Err: err})
	}
	return items
}

// ParseEvent validates one raw event and builds its kind-specific payload.
// On error the returned event still carries whatever was readable.
func ParseEvent(raw json.RawMessage, direction model.Direction, batchID string) (model.ChainEvent, error) {
	event := model.ChainEvent{
		Kind:      model.KindUnknown,
		Direction: direction,
		BatchID:   batchID,
		Payload:   model.UnknownPayload{},
	}

	var ev model.RawEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return event, fmt.Errorf("decode event: %w", err)
	}

	event.RawType = ev.Type
	event.Kind = Classify(ev.Type)
	event.Extra = extraFields(raw)
	event.Payload = buildPayload(event.Kind, ev)

	if ev.TransactionIdentifier == nil || strings.TrimSpace(ev.TransactionIdentifier.Hash) == "" {
		return event, fmt.Errorf("missing transaction_identifier.hash")
	}
	event.TransactionID = ev.TransactionIdentifier.Hash

	if ev.BlockIdentifier == nil || ev.BlockIdentifier.Index == nil {
		return event, fmt.Errorf("missing block_identifier.index")
	}
	height, err := strconv.ParseUint(ev.BlockIdentifier.Index.String(), 10, 64)
	if err != nil {
		return event, fmt.Errorf("invalid block height %q", ev.BlockIdentifier.Index.String())
	}
	event.BlockHeight = height

	return event, nil
}

func buildPayload(kind model.EventKind, ev model.RawEvent) model.Payload {
	switch kind {
	case model.KindContractCall:
		p := model.ContractCallPayload{}
		if ev.ContractCall != nil {
			p.ContractID = ev.ContractCall.ContractIdentifier
			p.FunctionName = ev.ContractCall.FunctionName
			p.FunctionArgs = ev.ContractCall.FunctionArgs
		}
		return p
	case model.KindFungibleTokenMint, model.KindFungibleTokenTransfer, model.KindFungibleTokenBurn:
		return model.FungibleTokenPayload{
			AssetID:   ev.AssetIdentifier,
			Amount:    scalarString(ev.Amount),
			Sender:    ev.Sender,
			Recipient: ev.Recipient,
		}
	case model.KindNonFungibleTokenMint, model.KindNonFungibleTokenTransfer, model.KindNonFungibleTokenBurn:
		return model.NonFungibleTokenPayload{
			AssetID:   ev.AssetIdentifier,
			TokenID:   ev.Value,
			Sender:    ev.Sender,
			Recipient: ev.Recipient,
		}
	case model.KindPrintLog:
		return model.PrintPayload{
			ContractID: ev.ContractIdentifier,
			Value:      ev.Value,
			Repr:       clarityRepr(ev.Value),
		}
	default:
		return model.UnknownPayload{}
	}
}

// scalarString renders a JSON string or number as plain text.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// clarityRepr decodes print values delivered as hex-serialized Clarity values.
func clarityRepr(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || !strings.HasPrefix(s, "0x") {
		return ""
	}
	v, err := clarity.DecodeHex(s)
	if err != nil {
		return ""
	}
	return v.String()
}

func extraFields(raw json.RawMessage) map[string]json.RawMessage {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil
	}
	for _, known := range model.RawEventFields {
		delete(all, known)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}
