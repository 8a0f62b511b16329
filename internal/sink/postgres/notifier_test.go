package postgres

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"voteRelay/internal/model"
)

func TestNotifyPayloadFitsLimit(t *testing.T) {
	record := model.NewEventRecord(model.ChainEvent{
		Kind:          model.KindPrintLog,
		RawType:       "print_event",
		TransactionID: "0xabc",
		BlockHeight:   5,
		Direction:     model.DirectionApply,
		Payload:       model.PrintPayload{ContractID: "ST1.vote", Repr: "u1"},
	}, time.Unix(0, 0))

	payload, err := notifyPayload(record)
	if err != nil {
		t.Fatalf("notify payload: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded["payload"] == nil {
		t.Fatalf("payload should be kept for small records")
	}
}

func TestNotifyPayloadDropsLargeBodies(t *testing.T) {
	record := model.NewEventRecord(model.ChainEvent{
		Kind:          model.KindPrintLog,
		TransactionID: "0xabc",
		Payload:       model.PrintPayload{Repr: strings.Repeat("x", 10000)},
	}, time.Unix(0, 0))

	payload, err := notifyPayload(record)
	if err != nil {
		t.Fatalf("notify payload: %v", err)
	}
	if len(payload) > maxNotifyPayload {
		t.Fatalf("payload too large: %d", len(payload))
	}
	if !strings.Contains(payload, `"payload":null`) {
		t.Fatalf("expected payload to be dropped: %s", payload)
	}
}

func TestNewNotifierRequiresDSN(t *testing.T) {
	if _, err := NewNotifier(context.Background(), "", "events"); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
	if _, err := NewNotifier(context.Background(), "postgres://localhost/db", ""); err == nil {
		t.Fatalf("expected error for empty channel")
	}
}
