package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Client-facing error messages.
const (
	MsgNotConfigured = "Email service is not configured"
	MsgInvalidJSON   = "Invalid JSON body"
	MsgTooLarge      = "Request body too large"
	MsgSendFailed    = "Failed to send message"
)

// HTTPError is an error with the status and message sent to the client.
type HTTPError struct {
	Code    int    // HTTP status code
	Message string // Message returned to the client
	Err     error  // Optional underlying error, logged only
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// BadRequest creates a 400 error with a client message.
func BadRequest(message string, err error) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Message: message, Err: err}
}

// Internal creates a 500 error with a client message.
func Internal(message string, err error) *HTTPError {
	return &HTTPError{Code: http.StatusInternalServerError, Message: message, Err: err}
}

type okResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes err as {"error": message}. Errors that are not an
// *HTTPError become a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var he *HTTPError
	if !errors.As(err, &he) {
		he = Internal(http.StatusText(http.StatusInternalServerError), err)
	}
	writeJSON(w, he.Code, errorResponse{Error: he.Message})
}
