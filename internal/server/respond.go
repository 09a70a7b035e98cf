package server

import (
	"encoding/json"
	"net/http"

	"github.com/tonquiz/miniapp/pkg/errors"
	"github.com/tonquiz/miniapp/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps application error codes onto HTTP statuses and emits
// the {"error": ...} body clients expect.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch errors.CodeOf(err) {
	case errors.ErrCodeValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case errors.ErrCodeRoomFull, errors.ErrCodeAlreadyExists:
		status = http.StatusConflict
		message = err.Error()
	case errors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
		message = err.Error()
	default:
		logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, map[string]string{"error": message})
}
