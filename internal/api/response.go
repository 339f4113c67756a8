package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response represents the envelope used by the service endpoints.
// Documentation records are served bare, without it.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewJSONResponse creates a new successful JSON response
func NewJSONResponse(data interface{}) *Response {
	return &Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err string) *Response {
	return &Response{
		Success:   false,
		Error:     err,
		Timestamp: time.Now().UTC(),
	}
}

// Write writes the response with 200 on success and 500 otherwise
func (r *Response) Write(w http.ResponseWriter) {
	status := http.StatusOK
	if !r.Success {
		status = http.StatusInternalServerError
	}
	r.WriteWithStatus(w, status)
}

// WriteWithStatus writes the response with a custom status code
func (r *Response) WriteWithStatus(w http.ResponseWriter, statusCode int) {
	writeJSON(w, statusCode, r)
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
