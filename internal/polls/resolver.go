package polls

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"voteRelay/internal/clarity"
	"voteRelay/internal/model"
	"voteRelay/internal/stacks"
)

// Caller is the read-only call surface of the node client.
type Caller interface {
	CallReadOnly(ctx context.Context, contract stacks.ContractID, function, sender string, args ...string) (stacks.CallResult, error)
}

// ResolveError is a failed poll count lookup. Status and Body are set when the node
// answered with a non-2xx status.
type ResolveError struct {
	Status int
	Body   string
	Err    error
}

func (e *ResolveError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("resolve poll count: node status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("resolve poll count: %v", e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// CountResolver reads the contract's poll counter.
type CountResolver struct {
	caller        Caller
	contract      stacks.ContractID
	function      string
	defaultSender string
	logger        *zap.Logger
}

// NewCountResolver builds a resolver for function on contract. An empty
// defaultSender falls back to the contract's deployer address.
func NewCountResolver(caller Caller, contract stacks.ContractID, function, defaultSender string, logger *zap.Logger) *CountResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultSender == "" {
		defaultSender = contract.Address
	}
	return &CountResolver{
		caller:        caller,
		contract:      contract,
		function:      function,
		defaultSender: defaultSender,
		logger:        logger,
	}
}

// Sender returns sender, or the default principal when it is empty.
func (r *CountResolver) Sender(sender string) string {
	if sender == "" {
		return r.defaultSender
	}
	return sender
}

// Resolve issues one read-only call and returns the raw result with its decoded count.
// No retries are attempted.
func (r *CountResolver) Resolve(ctx context.Context, sender string) (model.PollCount, error) {
	res, err := r.caller.CallReadOnly(ctx, r.contract, r.function, r.Sender(sender))
	if err != nil {
		var upstream *stacks.UpstreamError
		if errors.As(err, &upstream) {
			r.logger.Error("poll count upstream error",
				zap.Int("status", upstream.Status),
				zap.String("body", upstream.Body),
			)
			return model.PollCount{}, &ResolveError{Status: upstream.Status, Body: upstream.Body, Err: err}
		}
		return model.PollCount{}, &ResolveError{Err: err}
	}
	if !res.Okay {
		return model.PollCount{}, &ResolveError{Err: fmt.Errorf("read-only call failed: %s", res.Cause)}
	}

	count, err := clarity.DecodeCount(res.Result)
	if err != nil {
		return model.PollCount{}, &ResolveError{Err: err}
	}
	r.logger.Debug("poll count resolved", zap.String("result", res.Result), zap.Uint64("count", count))
	return model.PollCount{Okay: true, Result: res.Result, Count: count}, nil
}

// ResolveCount is Resolve without the raw result.
func (r *CountResolver) ResolveCount(ctx context.Context, sender string) (uint64, error) {
	pc, err := r.Resolve(ctx, sender)
	if err != nil {
		return 0, err
	}
	return pc.Count, nil
}
