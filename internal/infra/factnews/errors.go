package factnews

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fact-news/internal/domain/entity"
)

// TransportError means no HTTP response was obtained: dial failure, timeout,
// cancelled context or an open circuit breaker.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("factnews %s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Unreachable reports that the API could not be reached at all.
func (e *TransportError) Unreachable() bool { return true }

// APIError is a non-2xx response from the API.
type APIError struct {
	Op     string
	Status int
	// Detail is the "detail" string of a JSON error body, if any.
	Detail string
	// Body is the raw response body.
	Body string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Body
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("factnews %s: status %d: %s", e.Op, e.Status, msg)
}

// Is makes 404 responses match entity.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == entity.ErrNotFound && e.Status == http.StatusNotFound
}

// UserMessage is the text shown to the user: the server detail when present, else the raw body.
func (e *APIError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return strings.TrimSpace(e.Body)
}

// ServerFault reports a 5xx response.
func (e *APIError) ServerFault() bool { return e.Status >= 500 }

// newAPIError builds an APIError from a failed response body.
// FastAPI validation errors carry a list in "detail"; only string details are surfaced.
func newAPIError(op string, status int, body []byte) *APIError {
	apiErr := &APIError{Op: op, Status: status, Body: string(body)}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var detail string
		if json.Unmarshal(envelope.Detail, &detail) == nil {
			apiErr.Detail = detail
		}
	}
	return apiErr
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// countsAsFailure decides which errors trip the circuit breaker.
// Client errors (4xx) are the caller's fault and leave the circuit alone.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ServerFault()
	}
	var decodeErr *DecodeError
	return !errors.As(err, &decodeErr)
}

// DecodeError means a 2xx response body could not be decoded.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("factnews %s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
