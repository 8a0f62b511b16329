package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"voteRelay/internal/model"
)

// NewRequestID returns a fresh identifier for requests that arrive without one.
func NewRequestID() string { return "req_" + uuid.NewString() }

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard {error, details} body.
func WriteError(w http.ResponseWriter, status int, message, details string) {
	WriteJSON(w, status, model.ErrorResponse{Error: message, Details: details})
}

// ReadJSON decodes the request body into dst. An empty body leaves dst untouched.
func ReadJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
