package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoToken means no GitHub token could be found.
	ErrNoToken = errors.New("GitHub token not found in environment or config files")

	// ErrRateLimited means the API answered 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable means the API answered with a 5xx status.
	ErrUnavailable = errors.New("completion service unavailable")

	// ErrUnauthorized means the token was rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyResponse means the stream finished without any content.
	ErrEmptyResponse = errors.New("empty response")
)

// APIError is a non-200 answer from the Copilot API.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// newAPIError classifies a status code into one of the sentinel errors.
func newAPIError(status int, body string) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}
	switch {
	case status == http.StatusTooManyRequests:
		apiErr.Err = ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		apiErr.Err = ErrUnauthorized
	case status >= http.StatusInternalServerError:
		apiErr.Err = ErrUnavailable
	}
	return apiErr
}

// IsRetryable reports whether err is likely transient.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}
