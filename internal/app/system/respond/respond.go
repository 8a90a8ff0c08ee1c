// internal/app/system/respond/respond.go
//
// Package respond centralizes JSON response writing and the HTTP error
// taxonomy. Every boundary handler translates its failures into exactly one
// of these responses; nothing propagates to the client as an unhandled
// fault. Internal errors keep their detail in server logs only.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorBody is the uniform error payload.
type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error body with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// Unauthorized: no or invalid credential (401).
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "unauthorized")
}

// Forbidden: valid credential, insufficient role or ownership (403).
func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "forbidden"
	}
	Error(w, http.StatusForbidden, msg)
}

// NotFound: resource id resolves to nothing (404).
func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not found"
	}
	Error(w, http.StatusNotFound, msg)
}

// BadRequest: missing or malformed fields, bad id format (400).
func BadRequest(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "bad request"
	}
	Error(w, http.StatusBadRequest, msg)
}

// Conflict: duplicate unique field, e.g. signup email (409).
func Conflict(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "conflict"
	}
	Error(w, http.StatusConflict, msg)
}

// Internal logs the underlying error with full detail and writes a generic
// 500 body; the detail never reaches the response.
func Internal(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	if logger != nil {
		logger.Error(op, zap.Error(err))
	}
	Error(w, http.StatusInternalServerError, "internal server error")
}
