package harmonyclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBaseURL is returned when a base URL option is invalid.
	ErrInvalidBaseURL = errors.New("harmonyclient: invalid base URL")
	// ErrNilHTTPClient indicates a nil HTTP client was provided.
	ErrNilHTTPClient = errors.New("harmonyclient: http client cannot be nil")
	// ErrUnknownEnvironment indicates an environment with no hostname.
	ErrUnknownEnvironment = errors.New("harmonyclient: unknown environment")
	// ErrJobFailed indicates a job reached a failed terminal state.
	ErrJobFailed = errors.New("harmonyclient: job failed")
	// ErrJobCanceled indicates a job was canceled before completing.
	ErrJobCanceled = errors.New("harmonyclient: job canceled")
)

// APIError represents a Harmony error payload or plain HTTP failure.
// The service reports errors as {"code": ..., "description": ...}.
type APIError struct {
	Status      int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Raw         []byte `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code == "" && e.Description == "" {
		return fmt.Sprintf("harmonyclient: api error status=%d", e.Status)
	}
	if e.Code != "" && e.Description != "" {
		return fmt.Sprintf("harmonyclient: %s (%s)", e.Code, e.Description)
	}
	if e.Code != "" {
		return fmt.Sprintf("harmonyclient: %s", e.Code)
	}
	return fmt.Sprintf("harmonyclient: %s", e.Description)
}

// Temporary reports whether the error may be retried.
func (e *APIError) Temporary() bool {
	if e == nil {
		return false
	}
	return e.Status >= 500 && e.Status < 600
}

// InvalidRequestError reports client-side validation failures found
// before a request is submitted.
type InvalidRequestError struct {
	Messages []string
}

func (e *InvalidRequestError) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return "harmonyclient: invalid request"
	}
	return "harmonyclient: invalid request: " + strings.Join(e.Messages, "; ")
}
