package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds JSON request bodies read through DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrorResponse is the body written for every 4xx/5xx answer that is not a
// field validation failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ValidationErrorResponse carries per-field messages for request bodies
// that decoded fine but broke a constraint.
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse whose category is the standard status
// text for code.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{Error: http.StatusText(code), Message: message})
}

// WriteValidationError answers 422 with the field→message map.
func WriteValidationError(w http.ResponseWriter, details map[string]string) {
	WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:   "Validation Failed",
		Message: "Validation failed for some fields",
		Details: details,
	})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ErrBadBody is returned by DecodeJSON for bodies that are not a single
// JSON document.
var ErrBadBody = errors.New("httpx: request body must be valid JSON")

// DecodeJSON reads one JSON document from the request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrBadBody)
	}
	return nil
}
