package chainhook

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"voteRelay/internal/httpx"
	"voteRelay/internal/model"
)

// DefaultMaxBodyBytes bounds a delivery body when no limit is configured.
const DefaultMaxBodyBytes int64 = 5 << 20

// Result summarizes a processed delivery. Processed counts apply items, including
// rejected ones and ones whose handler failed.
type Result struct {
	Processed int
	Undone    int
	Rejected  int
	Failed    int
}

// Ingestor authenticates, parses and dispatches webhook deliveries.
type Ingestor struct {
	guard        *AuthGuard
	dispatcher   *Dispatcher
	maxBodyBytes int64
	logger       *zap.Logger
}

func NewIngestor(guard *AuthGuard, dispatcher *Dispatcher, maxBodyBytes int64, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher(logger)
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Ingestor{
		guard:        guard,
		dispatcher:   dispatcher,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Process dispatches the undo sequence, then the apply sequence, each in payload order.
func (i *Ingestor) Process(ctx context.Context, batch model.WebhookBatch) Result {
	res := Result{
		Processed: len(batch.Apply),
		Undone:    len(batch.Undo),
	}
	for _, seq := range [][]model.BatchItem{batch.Undo, batch.Apply} {
		for _, item := range seq {
			if item.Err != nil {
				res.Rejected++
				i.dispatcher.Reject(item.Event, item.Err)
				continue
			}
			if out := i.dispatcher.Dispatch(ctx, item.Event); out.Err != nil {
				res.Failed++
			}
		}
	}
	return res
}

func (i *Ingestor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := i.guard.Authorize(r.Header.Get("Authorization")); err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, i.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "Payload too large", "")
			return
		}
		i.logger.Error("read webhook body", zap.Error(err))
		httpx.WriteJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "Internal server error"})
		return
	}

	batch, err := ParseBatch(body)
	if err != nil {
		i.logger.Error("parse webhook payload", zap.Error(err))
		httpx.WriteJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error: "Internal server error",
			Kind:  "malformed_payload",
		})
		return
	}

	res := i.Process(r.Context(), batch)
	i.logger.Info("webhook processed",
		zap.String("batch_id", batch.DeliveryID),
		zap.Int("processed", res.Processed),
		zap.Int("undone", res.Undone),
		zap.Int("rejected", res.Rejected),
		zap.Int("failed", res.Failed),
	)
	httpx.WriteJSON(w, http.StatusOK, model.WebhookResponse{
		Success:   true,
		Processed: res.Processed,
		Undone:    res.Undone,
	})
}

// Status answers the GET probe on the webhook path.
func Status(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, model.WebhookStatus{
			Status:   "active",
			Endpoint: path,
			Message:  "Chainhook webhook endpoint is ready to receive events",
		})
	}
}
