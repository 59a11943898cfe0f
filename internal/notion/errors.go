package notion

import "fmt"

// APIError is a non-2xx or error-shaped response from the remote API. It
// carries the remote-supplied code and message when present.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Code is the machine-readable error code, e.g. "object_not_found".
	Code string

	// Message is the human-readable error text from the API.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("API error %d", e.Status)
}
