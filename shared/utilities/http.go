package utilities

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// Envelope is the body shape shared by the backend and the console: the payload
// travels under "response", failures under "error" and "fields".
type Envelope[T any] struct {
	Response T                 `json:"response,omitempty"`
	Error    string            `json:"error,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// WriteResponse writes payload wrapped in an Envelope.
func WriteResponse[T any](w http.ResponseWriter, status int, payload T) {
	WriteJSON(w, status, Envelope[T]{Response: payload})
}

// WriteError writes an Envelope carrying only an error message and optional field messages.
func WriteError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	WriteJSON(w, status, Envelope[*struct{}]{Error: message, Fields: fields})
}

// WriteJSON writes v as the JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON decodes a request body into dst, rejecting unknown fields and bodies
// larger than 1 MiB.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}

	return nil
}
