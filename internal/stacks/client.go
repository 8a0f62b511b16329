package stacks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"voteRelay/internal/clarity"
)

// maxErrorBody bounds how much of a failed upstream response is kept.
const maxErrorBody = 64 << 10

// Client calls read-only contract functions on a Stacks node API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the node at baseURL. A nil httpClient uses
// http.DefaultClient; callers bound request time through the context.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse node url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("node url must be http or https: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: u.String(), http: httpClient}, nil
}

// ContractID names a deployed contract.
type ContractID struct {
	Address string
	Name    string
}

func (c ContractID) String() string { return c.Address + "." + c.Name }

// ParseContractID parses "<address>.<name>" and validates the address checksum.
func ParseContractID(s string) (ContractID, error) {
	v, err := clarity.ParsePrincipal(s)
	if err != nil {
		return ContractID{}, err
	}
	cp, ok := v.(clarity.ContractPrincipal)
	if !ok {
		return ContractID{}, fmt.Errorf("not a contract identifier: %q", s)
	}
	return ContractID{Address: cp.Issuer.Address(), Name: cp.Name}, nil
}

// CallResult is the node's read-only call response.
type CallResult struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result,omitempty"`
	Cause  string `json:"cause,omitempty"`
}

// UpstreamError reports a non-2xx node response.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("node returned status %d: %s", e.Status, e.Body)
}

type callRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

// CallReadOnly evaluates function on contract with hex-encoded Clarity arguments.
// Transport failures are returned as-is; non-2xx responses as *UpstreamError.
func (c *Client) CallReadOnly(ctx context.Context, contract ContractID, function, sender string, args ...string) (CallResult, error) {
	if args == nil {
		args = []string{}
	}
	body, err := json.Marshal(callRequest{Sender: sender, Arguments: args})
	if err != nil {
		return CallResult{}, fmt.Errorf("marshal call: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/contracts/call-read/%s/%s/%s",
		c.baseURL,
		url.PathEscape(contract.Address),
		url.PathEscape(contract.Name),
		url.PathEscape(function),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return CallResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return CallResult{}, fmt.Errorf("call %s.%s: %w", contract, function, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return CallResult{}, &UpstreamError{Status: resp.StatusCode, Body: string(text)}
	}

	var out CallResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CallResult{}, fmt.Errorf("decode call response: %w", err)
	}
	return out, nil
}
