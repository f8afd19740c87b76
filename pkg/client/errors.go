package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrRateLimited is returned when the rate limit tracker blocks a request.
var ErrRateLimited = errors.New("request blocked: upstream rate limit critical")

// ErrorClass represents a classification of request failures. It only
// drives metrics and logging; every class propagates to the caller the same way.
type ErrorClass string

const (
	// ErrorClassNetwork represents failures before any response arrived.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassTransport represents non-2xx HTTP responses.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassAPI represents GraphQL error envelopes and undecodable bodies.
	ErrorClassAPI ErrorClass = "api"

	// ErrorClassRateLimit represents requests blocked locally by the tracker.
	ErrorClassRateLimit ErrorClass = "rate_limit"
)

// APIError is the single failure type returned by Client.Run.
type APIError struct {
	Operation  string
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rmp %s error (operation %s, status %d): %s: %v",
			e.ErrorClass, e.Operation, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("rmp %s error (operation %s, status %d): %s",
		e.ErrorClass, e.Operation, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyError categorizes a failed call from the status code observed by
// the transport (0 when no response arrived) and the returned error.
func classifyError(statusCode int, err error) ErrorClass {
	switch {
	case errors.Is(err, ErrRateLimited):
		return ErrorClassRateLimit
	case statusCode == 0:
		return ErrorClassNetwork
	case statusCode < 200 || statusCode >= 300:
		return ErrorClassTransport
	default:
		return ErrorClassAPI
	}
}

// newAPIError builds the error returned to callers.
func newAPIError(operation string, statusCode int, err error) *APIError {
	class := classifyError(statusCode, err)

	var message string
	switch class {
	case ErrorClassTransport:
		message = http.StatusText(statusCode)
	case ErrorClassAPI:
		message = "graphql error"
		if err != nil {
			message = strings.TrimPrefix(err.Error(), "graphql: ")
			err = nil
		}
	case ErrorClassRateLimit:
		message = "rate limited"
	default:
		message = "request failed"
	}

	return &APIError{
		Operation:  operation,
		StatusCode: statusCode,
		ErrorClass: class,
		Message:    message,
		Err:        err,
	}
}
