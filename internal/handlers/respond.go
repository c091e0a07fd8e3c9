package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"craftstore/internal/apperr"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError translates any error to the API's {message} envelope using
// the apperr taxonomy. Internal faults are logged with detail but leave
// the process with a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeMessage(w, status, apperr.Message(err))
}
