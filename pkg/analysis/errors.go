package analysis

import (
	"errors"
	"fmt"
)

const connectivityMessage = "Unable to reach the analysis service. Check your connection and try again."

// TransportError means no response was received from the analysis service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError means the analysis service answered with a non-success status.
type APIError struct {
	Op         string
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: analysis service error (http %d, %s): %s", e.Op, e.StatusCode, e.Status, e.Message)
}

// UserMessage renders an error from this package the way it should be shown to a seller.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return connectivityMessage
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return err.Error()
}

// IsTransport reports whether err is a connectivity failure.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
