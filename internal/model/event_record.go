package model

import (
	"encoding/json"
	"time"
)

// EventRecord is the normalized form of a ChainEvent handed to forwarding sinks.
type EventRecord struct {
	BatchID       string                     `json:"chainhook_uuid"`
	Direction     Direction                  `json:"direction"`
	Kind          EventKind                  `json:"kind"`
	RawType       string                     `json:"type"`
	TransactionID string                     `json:"tx_id"`
	BlockHeight   uint64                     `json:"block_height"`
	Payload       Payload                    `json:"payload"`
	Extra         map[string]json.RawMessage `json:"extra,omitempty"`
	ReceivedAt    string                     `json:"received_at"`
}

// NewEventRecord builds the record forwarded for event.
func NewEventRecord(event ChainEvent, receivedAt time.Time) EventRecord {
	return EventRecord{
		BatchID:       event.BatchID,
		Direction:     event.Direction,
		Kind:          event.Kind,
		RawType:       event.RawType,
		TransactionID: event.TransactionID,
		BlockHeight:   event.BlockHeight,
		Payload:       event.Payload,
		Extra:         event.Extra,
		ReceivedAt:    receivedAt.UTC().Format(time.RFC3339Nano),
	}
}
