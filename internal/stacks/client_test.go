package stacks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"voteRelay/internal/clarity"
)

func testContract(t *testing.T) ContractID {
	t.Helper()
	issuer := clarity.StandardPrincipal{Version: clarity.VersionTestnetSingleSig, Hash160: [20]byte{1, 2, 3}}
	id, err := ParseContractID(issuer.Address() + ".Blackadam-vote-contract")
	if err != nil {
		t.Fatalf("parse contract: %v", err)
	}
	return id
}

func TestCallReadOnly(t *testing.T) {
	contract := testContract(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/v2/contracts/call-read/" + contract.Address + "/Blackadam-vote-contract/get-poll"
		if r.Method != http.MethodPost || r.URL.Path != want {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body callRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Sender != contract.Address || len(body.Arguments) != 1 || body.Arguments[0] != clarity.EncodeUIntHex(2) {
			t.Errorf("unexpected body: %+v", body)
		}
		_, _ = w.Write([]byte(`{"okay":true,"result":"0x0703"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/", server.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	res, err := client.CallReadOnly(context.Background(), contract, "get-poll", contract.Address, clarity.EncodeUIntHex(2))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !res.Okay || res.Result != "0x0703" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCallReadOnlySendsEmptyArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		if string(raw["arguments"]) != "[]" {
			t.Errorf("arguments should be an empty array, got %s", raw["arguments"])
		}
		_, _ = w.Write([]byte(`{"okay":true,"result":"0x0701000000000000000000000000000005"}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, nil)
	if _, err := client.CallReadOnly(context.Background(), testContract(t), "get-poll-count", "ST1"); err != nil {
		t.Fatalf("call: %v", err)
	}
}

func TestCallReadOnlyUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, server.Client())
	_, err := client.CallReadOnly(context.Background(), testContract(t), "get-poll-count", "ST1")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusTooManyRequests || upstream.Body != "slow down" {
		t.Fatalf("unexpected upstream error: %+v", upstream)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"ftp://node", "::bad", ""} {
		if _, err := NewClient(raw, nil); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseContractID(t *testing.T) {
	if _, err := ParseContractID("not-an-address.vote"); err == nil {
		t.Fatalf("expected error for bad address")
	}
	issuer := clarity.StandardPrincipal{Version: clarity.VersionTestnetSingleSig}
	if _, err := ParseContractID(issuer.Address()); err == nil {
		t.Fatalf("expected error for standard principal")
	}
	id := testContract(t)
	if id.String() != id.Address+".Blackadam-vote-contract" {
		t.Fatalf("unexpected id: %s", id)
	}
}
