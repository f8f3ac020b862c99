package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abiiranathan/lexicon/internal/apperrors"
)

// respondJSON writes v as a JSON body with the given status code,
// generalizing the project's manual json_response helpers into one
// small encoder shared by every handler.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// respondError maps err to an HTTP status via its apperrors.Kind (400
// for InvalidInput, 404 for NotFound, 500 otherwise) and writes a JSON
// error envelope.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	if kind, ok := apperrors.GetKind(err); ok {
		switch kind {
		case apperrors.InvalidInput:
			status = http.StatusBadRequest
		case apperrors.NotFound:
			status = http.StatusNotFound
		default:
			status = http.StatusInternalServerError
		}
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "error", err)
	}

	respondJSON(w, r, status, map[string]string{"error": err.Error()})
}
