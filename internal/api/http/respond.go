package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("failed to encode response body", "error", err)
		}
	}
}

// writeError maps domain error categories onto status codes. Every failure
// body has the single shape {"error": string}; persistence failures surface
// their raw message as a 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
