package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the auth service.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int `json:"-"`

	// Code is the error category (e.g., "Unauthorized", "Validation Failed")
	Code string `json:"error"`

	// Message is the human-readable explanation
	Message string `json:"message"`

	// Details holds per-field messages on validation failures
	Details map[string]string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	fields := make([]string, 0, len(e.Details))
	for k, v := range e.Details {
		fields = append(fields, k+" "+v)
	}
	return fmt.Sprintf("%d %s: %s (%s)", e.StatusCode, e.Code, e.Message, strings.Join(fields, ", "))
}

// IsUnauthorized reports whether err is a 401 from the auth service.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsValidationError reports whether err is a 422 field validation failure.
func IsValidationError(err error) bool {
	return hasStatus(err, http.StatusUnprocessableEntity)
}

// IsRateLimited reports whether err is a 429.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// parseErrorResponse converts an error response body into an *APIError.
// Bodies that are not JSON keep their raw text as the message.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}
