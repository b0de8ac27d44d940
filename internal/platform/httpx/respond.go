// Package httpx provides the JSON response envelope shared by all handlers.
package httpx

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
)

// Data is the payload map nested under "data" in success responses.
type Data map[string]any

type successBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorBody is the error object nested under "error" in failure responses.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Stack   string `json:"stack,omitempty"`
}

type failureBody struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successBody{Success: true, Data: data})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// Responder maps domain errors to failure envelopes. In development mode
// internal errors carry a stack trace; in production they are opaque.
type Responder struct {
	development bool
}

// NewResponder constructs a Responder.
func NewResponder(development bool) *Responder {
	return &Responder{development: development}
}

// Error writes the failure envelope for err.
func (rp *Responder) Error(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	body := ErrorBody{Message: err.Error(), Status: status}
	if status == http.StatusInternalServerError {
		if rp != nil && rp.development {
			body.Stack = string(debug.Stack())
		} else {
			body.Message = "Internal Server Error"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failureBody{Success: false, Error: body})
}
