package polls

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"voteRelay/internal/clarity"
	"voteRelay/internal/model"
	"voteRelay/internal/stacks"
)

// Mode selects how poll lookups are issued.
type Mode string

const (
	// ModeBulk issues every lookup concurrently and returns polls in ascending id order.
	// Failed lookups become error entries.
	ModeBulk Mode = "bulk"
	// ModeIncremental issues lookups one at a time with pacing and returns polls newest
	// first. Failed lookups are skipped.
	ModeIncremental Mode = "incremental"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBulk, ModeIncremental:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown aggregation mode %q", s)
}

// DefaultMaxPolls bounds the poll count when Config.MaxPolls is zero.
const DefaultMaxPolls uint64 = 10000

// Config tunes lookups. MaxPolls caps the count reported by the node; zero means
// DefaultMaxPolls, never unbounded.
type Config struct {
	PollFunction    string
	LookupTimeout   time.Duration
	PacingDelay     time.Duration
	BulkConcurrency int
	MaxPolls        uint64
}

// Aggregator fetches every poll the contract reports.
type Aggregator struct {
	resolver *CountResolver
	caller   Caller
	contract stacks.ContractID
	cfg      Config
	logger   *zap.Logger
}

func NewAggregator(resolver *CountResolver, caller Caller, contract stacks.ContractID, cfg Config, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxPolls == 0 {
		cfg.MaxPolls = DefaultMaxPolls
	}
	return &Aggregator{
		resolver: resolver,
		caller:   caller,
		contract: contract,
		cfg:      cfg,
		logger:   logger,
	}
}

// Aggregate resolves the poll count, then looks up each id in [0, count).
// Only a count failure is returned as an error.
func (a *Aggregator) Aggregate(ctx context.Context, sender string, mode Mode) (model.PollList, error) {
	count, err := a.resolver.ResolveCount(ctx, sender)
	if err != nil {
		return model.PollList{}, err
	}
	if count == 0 {
		return model.PollList{Count: 0, Polls: []model.PollEntry{}}, nil
	}
	if count > a.cfg.MaxPolls {
		return model.PollList{}, fmt.Errorf("poll count %d exceeds limit %d", count, a.cfg.MaxPolls)
	}

	sender = a.resolver.Sender(sender)
	start := time.Now()

	var polls []model.PollEntry
	switch mode {
	case ModeBulk:
		polls = a.bulk(ctx, sender, count)
	case ModeIncremental:
		polls, err = a.incremental(ctx, sender, count)
		if err != nil {
			return model.PollList{}, err
		}
	default:
		return model.PollList{}, fmt.Errorf("unknown aggregation mode %q", mode)
	}

	a.logger.Info("polls aggregated",
		zap.String("mode", string(mode)),
		zap.Uint64("count", count),
		zap.Int("returned", len(polls)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return model.PollList{Count: count, Polls: polls}, nil
}

type lookupResult struct {
	entry model.PollEntry
	empty bool
}

func (a *Aggregator) bulk(ctx context.Context, sender string, count uint64) []model.PollEntry {
	ids := make([]uint64, count)
	for i := range ids {
		ids[i] = uint64(i)
	}

	workers := a.cfg.BulkConcurrency
	if workers <= 0 || workers > len(ids) {
		workers = len(ids)
	}
	mapper := iter.Mapper[uint64, lookupResult]{MaxGoroutines: workers}
	results := mapper.Map(ids, func(id *uint64) lookupResult {
		poll, empty, err := a.lookup(ctx, sender, *id)
		if err != nil {
			a.logger.Warn("poll lookup failed", zap.Uint64("poll_id", *id), zap.Error(err))
			return lookupResult{entry: model.PollEntry{PollID: *id, Error: err.Error()}}
		}
		if empty {
			return lookupResult{empty: true}
		}
		return lookupResult{entry: model.PollEntry{PollID: *id, Poll: &poll}}
	})

	polls := make([]model.PollEntry, 0, len(results))
	for _, r := range results {
		if !r.empty {
			polls = append(polls, r.entry)
		}
	}
	return polls
}

func (a *Aggregator) incremental(ctx context.Context, sender string, count uint64) ([]model.PollEntry, error) {
	limit := rate.Inf
	if a.cfg.PacingDelay > 0 {
		limit = rate.Every(a.cfg.PacingDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	polls := make([]model.PollEntry, 0, count)
	for id := uint64(0); id < count; id++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for poll %d: %w", id, err)
		}
		poll, empty, err := a.lookup(ctx, sender, id)
		if err != nil {
			a.logger.Warn("skipping poll", zap.Uint64("poll_id", id), zap.Error(err))
			continue
		}
		if empty {
			continue
		}
		polls = append(polls, model.PollEntry{PollID: id, Poll: &poll})
	}

	for i, j := 0, len(polls)-1; i < j; i, j = i+1, j-1 {
		polls[i], polls[j] = polls[j], polls[i]
	}
	return polls, nil
}

func (a *Aggregator) lookup(ctx context.Context, sender string, id uint64) (model.Poll, bool, error) {
	if a.cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.LookupTimeout)
		defer cancel()
	}

	res, err := a.caller.CallReadOnly(ctx, a.contract, a.cfg.PollFunction, sender, clarity.EncodeUIntHex(id))
	if err != nil {
		return model.Poll{}, false, err
	}
	if !res.Okay {
		return model.Poll{}, false, fmt.Errorf("read-only call failed: %s", res.Cause)
	}
	v, err := clarity.DecodeHex(res.Result)
	if err != nil {
		return model.Poll{}, false, err
	}
	return PollFromValue(id, v)
}
