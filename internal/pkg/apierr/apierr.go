package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Codes distinguish external API failure classes so tool modules can tell a
// retry-later condition from a fix-your-credentials condition.
const (
	CodeRateLimited       = "rate_limited"
	CodeUnauthorized      = "unauthorized"
	CodeTimeout           = "timeout"
	CodeMalformedResponse = "malformed_response"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatusCode() int { return e.Status }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromStatus classifies an upstream HTTP status into an Error.
func FromStatus(status int, err error) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return New(status, CodeRateLimited, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return New(status, CodeUnauthorized, err)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return New(status, CodeTimeout, err)
	default:
		return New(status, "", err)
	}
}

// FromTransport classifies a transport-level failure (no HTTP status).
func FromTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return New(0, CodeTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return New(0, CodeTimeout, err)
	}
	return New(0, "", err)
}

// Malformed wraps a response-parsing failure.
func Malformed(err error) *Error {
	return New(0, CodeMalformedResponse, err)
}

// IsCode reports whether err carries the given classification code.
func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
