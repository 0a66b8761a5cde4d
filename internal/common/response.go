package common

import (
	"encoding/json"
	"net/http"
)

// ErrorBody represents a consistent error payload returned by the admin API.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an error response using the admin error shape.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, map[string]any{
		"error": ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Success renders the storefront success envelope. Extra fields are merged
// alongside the success flag at the top level of the payload.
func Success(w http.ResponseWriter, fields map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	JSON(w, http.StatusOK, payload)
}

// Fail renders the storefront error envelope: a bare message under "error".
// The storefront clients key off the HTTP status, not an error code.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{"error": message})
}
