// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"
)

// Message is the body of every non-2xx API response.
type Message struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with payload as the whole body.
func OK(w http.ResponseWriter, payload interface{}) {
	JSON(w, http.StatusOK, payload)
}

// Error writes a {"message": ...} response with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Message{Message: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// MethodNotAllowed writes the 405 response shared by every API route.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotFound, "Not Found")
}

// InternalError writes a 500 response that carries the underlying failure in "error".
func InternalError(w http.ResponseWriter, message string, cause error) {
	body := Message{Message: message}
	if cause != nil {
		body.Error = cause.Error()
	}
	JSON(w, http.StatusInternalServerError, body)
}
