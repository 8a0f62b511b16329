package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestPollEntryJSON(t *testing.T) {
	entries := []PollEntry{
		{PollID: 0, Poll: &Poll{PollID: 0, Creator: "ST1", Title: "Vote A", YesVotes: 10, NoVotes: 3, EndBlock: 99, IsActive: true}},
		{PollID: 1, Error: "connection refused"},
	}

	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if raw[0]["title"] != "Vote A" || raw[0]["isActive"] != true {
		t.Fatalf("poll entry shape mismatch: %v", raw[0])
	}
	if _, ok := raw[0]["error"]; ok {
		t.Fatalf("poll entry should not carry error")
	}
	if raw[1]["error"] != "connection refused" || raw[1]["pollId"] != float64(1) {
		t.Fatalf("error entry shape mismatch: %v", raw[1])
	}

	var decoded []PollEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode entries failed: %v", err)
	}
	if !reflect.DeepEqual(entries, decoded) {
		t.Fatalf("entries mismatch: %+v != %+v", entries, decoded)
	}
}

func TestEventRecordPayloadFields(t *testing.T) {
	event := ChainEvent{
		Kind:          KindFungibleTokenTransfer,
		RawType:       "ft_transfer_event",
		TransactionID: "0xabc",
		BlockHeight:   12,
		Direction:     DirectionApply,
		BatchID:       "hook-1",
		Payload:       FungibleTokenPayload{AssetID: "ST1.token::tok", Amount: "100", Sender: "ST1", Recipient: "ST2"},
	}

	data, err := json.Marshal(NewEventRecord(event, time.Unix(1700000000, 0)))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	payload, ok := decoded["payload"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload should be an object")
	}
	if payload["amount"] != "100" || payload["asset_identifier"] != "ST1.token::tok" {
		t.Fatalf("payload mismatch: %v", payload)
	}
	if decoded["received_at"] != "2023-11-14T22:13:20Z" {
		t.Fatalf("received_at mismatch: %v", decoded["received_at"])
	}
}
