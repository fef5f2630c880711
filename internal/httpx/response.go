package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/game-account-market/internal/market"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Meta    *pageMeta `json:"meta,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type pageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, market.ErrInvalidArgument), errors.Is(err, market.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, market.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, market.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports client errors verbatim and everything else as the generic message.
func writeError(w http.ResponseWriter, err error, generic string) {
	code := statusFor(err)
	msg := generic
	if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, code, envelope{Error: msg})
}
