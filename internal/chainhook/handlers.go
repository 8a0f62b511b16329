package chainhook

import (
	"context"

	"go.uber.org/zap"

	"voteRelay/internal/model"
	"voteRelay/internal/sink"
)

// NewDefaultDispatcher registers a handler for every known kind. Each handler logs
// the event and forwards it to s.
func NewDefaultDispatcher(s sink.Sink, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s == nil {
		s = sink.Nop{}
	}

	d := NewDispatcher(logger)
	d.Register(model.KindContractCall, forward(s, logContractCall(logger)))

	ft := forward(s, logFungibleToken(logger))
	for _, kind := range []model.EventKind{
		model.KindFungibleTokenMint,
		model.KindFungibleTokenTransfer,
		model.KindFungibleTokenBurn,
	} {
		d.Register(kind, ft)
	}

	nft := forward(s, logNonFungibleToken(logger))
	for _, kind := range []model.EventKind{
		model.KindNonFungibleTokenMint,
		model.KindNonFungibleTokenTransfer,
		model.KindNonFungibleTokenBurn,
	} {
		d.Register(kind, nft)
	}

	d.Register(model.KindPrintLog, forward(s, logPrint(logger)))
	return d
}

func forward(s sink.Sink, describe func(model.ChainEvent)) Handler {
	return HandlerFunc(func(ctx context.Context, event model.ChainEvent) error {
		describe(event)
		return s.Publish(ctx, event)
	})
}

func eventFields(event model.ChainEvent) []zap.Field {
	return []zap.Field{
		zap.String("direction", string(event.Direction)),
		zap.String("tx_id", event.TransactionID),
		zap.Uint64("block_height", event.BlockHeight),
	}
}

func logContractCall(logger *zap.Logger) func(model.ChainEvent) {
	return func(event model.ChainEvent) {
		p, _ := event.Payload.(model.ContractCallPayload)
		logger.Info("contract call",
			append(eventFields(event),
				zap.String("contract", p.ContractID),
				zap.String("function", p.FunctionName),
				zap.Strings("args", p.FunctionArgs),
			)...,
		)
	}
}

func logFungibleToken(logger *zap.Logger) func(model.ChainEvent) {
	return func(event model.ChainEvent) {
		p, _ := event.Payload.(model.FungibleTokenPayload)
		logger.Info("fungible token event",
			append(eventFields(event),
				zap.String("type", event.RawType),
				zap.String("asset", p.AssetID),
				zap.String("amount", p.Amount),
				zap.String("sender", p.Sender),
				zap.String("recipient", p.Recipient),
			)...,
		)
	}
}

func logNonFungibleToken(logger *zap.Logger) func(model.ChainEvent) {
	return func(event model.ChainEvent) {
		p, _ := event.Payload.(model.NonFungibleTokenPayload)
		logger.Info("non-fungible token event",
			append(eventFields(event),
				zap.String("type", event.RawType),
				zap.String("asset", p.AssetID),
				zap.ByteString("token_id", p.TokenID),
				zap.String("sender", p.Sender),
				zap.String("recipient", p.Recipient),
			)...,
		)
	}
}

func logPrint(logger *zap.Logger) func(model.ChainEvent) {
	return func(event model.ChainEvent) {
		p, _ := event.Payload.(model.PrintPayload)
		fields := append(eventFields(event), zap.String("contract", p.ContractID))
		if p.Repr != "" {
			fields = append(fields, zap.String("value", p.Repr))
		} else {
			fields = append(fields, zap.ByteString("value", p.Value))
		}
		logger.Info("print event", fields...)
	}
}
