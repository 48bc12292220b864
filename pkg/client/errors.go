package client

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned before any network I/O when the room id or
// API key is empty.
var ErrMissingCredentials = errors.New("missing credentials: set a room id and api key")

// ErrMalformedResponse is returned when a 2xx body is not the expected envelope.
var ErrMalformedResponse = errors.New("malformed response")

// NetworkError is a transport-level failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError represents a non-2xx HTTP response (or an ok:false envelope)
// from the API.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is a ServerError with the given status code.
func IsStatus(err error, code int) bool {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode == code
	}
	return false
}

// UserMessage renders err as a one-line message suitable for a toast.
func UserMessage(err error) string {
	var srvErr *ServerError
	var netErr *NetworkError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredentials):
		return "set a room id and api key first"
	case errors.As(err, &srvErr):
		if srvErr.Message == "" {
			return fmt.Sprintf("server error (%d)", srvErr.StatusCode)
		}
		return srvErr.Message
	case errors.As(err, &netErr):
		return "network error: " + netErr.Err.Error()
	default:
		return err.Error()
	}
}
