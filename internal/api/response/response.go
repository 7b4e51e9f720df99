// Package response writes the API's JSON envelopes. Success bodies are
// wrapped in {"data": ...}, failures in {"error": {code, message}}.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the machine-readable error every failing endpoint returns.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, data)
}

func Accepted(w http.ResponseWriter, data any) {
	write(w, http.StatusAccepted, data)
}

func Error(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": ErrorBody{Code: code, Message: message, Details: details},
	})
}

func write(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}
