// Package api provides standardized helper functions for HTTP API responses.
package api

import (
	"encoding/json"
	"net/http"
)

// fallbackBody is sent when a response value cannot be encoded.
var fallbackBody = []byte(`{"error":"An internal error occurred"}` + "\n")

// Success sends a standardized successful HTTP response with optional JSON data.
// Data that fails to encode turns the response into a 500; nothing partial
// is ever written.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	if data == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		return
	}
	write(w, statusCode, data)
}

// Error sends a standardized error response with consistent JSON format.
func Error(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, map[string]string{"error": message})
}

func write(w http.ResponseWriter, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		statusCode = http.StatusInternalServerError
		body = fallbackBody
	} else {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// A failed write means the client went away; there is no one to tell.
	_, _ = w.Write(body)
}
