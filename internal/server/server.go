package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"voteRelay/internal/chainhook"
	"voteRelay/internal/httpx"
	"voteRelay/internal/model"
	"voteRelay/internal/polls"
)

const WebhookPath = "/api/chainhooks/webhook"

// CountResolver resolves the current poll count.
type CountResolver interface {
	Resolve(ctx context.Context, sender string) (model.PollCount, error)
}

// PollAggregator fetches every poll in the given mode.
type PollAggregator interface {
	Aggregate(ctx context.Context, sender string, mode polls.Mode) (model.PollList, error)
}

type Deps struct {
	Webhook    http.Handler
	Resolver   CountResolver
	Aggregator PollAggregator
	Logger     *zap.Logger
}

// NewRouter mounts the webhook and voting endpoints.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	voting := &votingHandler{
		resolver:   deps.Resolver,
		aggregator: deps.Aggregator,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get(WebhookPath, chainhook.Status(WebhookPath))
	if deps.Webhook != nil {
		r.Method(http.MethodPost, WebhookPath, deps.Webhook)
	}

	r.Route("/api/voting", func(api chi.Router) {
		api.Post("/poll-count", voting.pollCount)
		api.Post("/all-polls", voting.polls(polls.ModeBulk))
		api.Post("/polls", voting.polls(polls.ModeIncremental))
	})
	return r
}

// ListenAndServe runs h on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
