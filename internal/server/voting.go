package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"voteRelay/internal/clarity"
	"voteRelay/internal/httpx"
	"voteRelay/internal/polls"
)

type votingRequest struct {
	Sender string `json:"sender"`
}

type votingHandler struct {
	resolver   CountResolver
	aggregator PollAggregator
	logger     *zap.Logger
}

// readSender decodes {sender} and checks it is a valid principal when present.
func (h *votingHandler) readSender(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req votingRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return "", false
	}
	if req.Sender != "" {
		if _, err := clarity.ParsePrincipal(req.Sender); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid sender", err.Error())
			return "", false
		}
	}
	return req.Sender, true
}

func (h *votingHandler) pollCount(w http.ResponseWriter, r *http.Request) {
	sender, ok := h.readSender(w, r)
	if !ok {
		return
	}
	count, err := h.resolver.Resolve(r.Context(), sender)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, count)
}

func (h *votingHandler) polls(mode polls.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sender, ok := h.readSender(w, r)
		if !ok {
			return
		}
		list, err := h.aggregator.Aggregate(r.Context(), sender, mode)
		if err != nil {
			h.writeFailure(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, list)
	}
}

// writeFailure forwards the node's status for count failures it answered, uses 502
// for other count failures and 500 for everything else.
func (h *votingHandler) writeFailure(w http.ResponseWriter, err error) {
	var resolveErr *polls.ResolveError
	if errors.As(err, &resolveErr) {
		h.logger.Error("poll count failed", zap.Error(err))
		if resolveErr.Status != 0 {
			httpx.WriteError(w, resolveErr.Status, "Failed to get poll count", resolveErr.Body)
			return
		}
		httpx.WriteError(w, http.StatusBadGateway, "Failed to get poll count", err.Error())
		return
	}
	h.logger.Error("fetch polls failed", zap.Error(err))
	httpx.WriteError(w, http.StatusInternalServerError, "Failed to fetch polls", err.Error())
}
