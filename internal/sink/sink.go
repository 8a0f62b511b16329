package sink

import (
	"context"
	"errors"

	"voteRelay/internal/model"
)

// Sink receives dispatched chain events.
type Sink interface {
	Publish(ctx context.Context, event model.ChainEvent) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, model.ChainEvent) error { return nil }

// Multi fans an event out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, event model.ChainEvent) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
