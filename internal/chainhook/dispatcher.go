package chainhook

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"voteRelay/internal/model"
)

// Handler processes one classified event.
type Handler interface {
	Handle(ctx context.Context, event model.ChainEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event model.ChainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event model.ChainEvent) error {
	return f(ctx, event)
}

// Outcome reports what happened to a single dispatched event.
type Outcome struct {
	Kind    model.EventKind
	Handled bool
	Err     error
}

// Dispatcher routes events to at most one handler per kind.
type Dispatcher struct {
	handlers map[model.EventKind]Handler
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		handlers: make(map[model.EventKind]Handler),
		logger:   logger,
	}
}

// Register binds h to kind, replacing any previous handler. KindUnknown cannot be bound.
func (d *Dispatcher) Register(kind model.EventKind, h Handler) {
	if kind == model.KindUnknown || h == nil {
		return
	}
	d.handlers[kind] = h
}

// Dispatch runs the handler for event.Kind. Handler errors and panics are logged and
// returned in the Outcome; they never propagate.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.ChainEvent) (out Outcome) {
	out.Kind = event.Kind

	h, ok := d.handlers[event.Kind]
	if !ok {
		d.logger.Info("unhandled event type",
			zap.String("type", event.RawType),
			zap.String("tx_id", event.TransactionID),
			zap.Uint64("block_height", event.BlockHeight),
		)
		return out
	}

	out.Handled = true
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("handler panic: %v", r)
			d.logFailure(event, out.Err)
		}
	}()

	if err := h.Handle(ctx, event); err != nil {
		out.Err = err
		d.logFailure(event, err)
	}
	return out
}

// Reject routes an event that failed validation to the no-op path: it is logged
// and never reaches a kind handler.
func (d *Dispatcher) Reject(event model.ChainEvent, reason error) Outcome {
	d.logger.Warn("rejected event",
		zap.String("batch_id", event.BatchID),
		zap.String("direction", string(event.Direction)),
		zap.String("type", event.RawType),
		zap.String("tx_id", event.TransactionID),
		zap.Error(reason),
	)
	return Outcome{Kind: event.Kind, Err: reason}
}

func (d *Dispatcher) logFailure(event model.ChainEvent, err error) {
	d.logger.Error("event handler failed",
		zap.String("kind", string(event.Kind)),
		zap.String("direction", string(event.Direction)),
		zap.String("tx_id", event.TransactionID),
		zap.Uint64("block_height", event.BlockHeight),
		zap.Error(err),
	)
}
