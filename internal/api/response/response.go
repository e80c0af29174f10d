// Package response writes the JSON envelopes shared by every endpoint:
// {"data": ...} on success and {"error": {...}} on failure. Job submission
// answers with a bare {"jobId": ...} body.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes returned in the error envelope.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidJobID      = "INVALID_JOB_ID"
	CodeNoFiles           = "NO_FILES"
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	CodeJobNotFound       = "JOB_NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
	CodeDegraded          = "DEGRADED"
)

type envelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a 200 data envelope.
func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

// Plain writes v as the whole 200 body, without the data envelope.
func Plain(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func Error(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response body", "error", err)
	}
}
