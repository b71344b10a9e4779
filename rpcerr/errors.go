// Package rpcerr defines the failure taxonomy shared by the codec and both transports.
//
// Every failure is surfaced to the caller as a typed value; nothing here is retried.
// Wrapper types implement Unwrap, so callers match with errors.Is / errors.As:
//
//	var statusErr *rpcerr.HTTPStatusError
//	if errors.As(err, &statusErr) && statusErr.StatusCode == 500 { ... }
package rpcerr

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrReadTimeout is reported when a connect, write or read deadline expires.
	ErrReadTimeout = errors.New("rpc: read timeout")
	// ErrTruncated is reported by hardened reads when the reply did not fit the buffer.
	ErrTruncated = errors.New("rpc: response truncated")
	// ErrIDMismatch is reported when the reply id does not echo the request id.
	ErrIDMismatch = errors.New("rpc: response id does not match request id")
	// ErrInvalidMethod is reported for method names not in "Service.Method" form.
	ErrInvalidMethod = errors.New("rpc: method must be in Service.Method form")
	// ErrRateLimited is reported by the client-side rate limiter.
	ErrRateLimited = errors.New("rpc: rate limit exceeded")
)

// ConnectionError means the transport could not be established.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("rpc: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WriteError means the request was not fully sent.
type WriteError struct {
	Written int
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("rpc: write failed after %d bytes: %v", e.Written, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// MalformedPayloadError means the bytes could not be parsed as a JSON object.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("rpc: malformed payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// HTTPStatusError carries a non-2xx status returned by the HTTP binding.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("rpc: http status %d", e.StatusCode)
}

// NetworkError means the HTTP request failed below the status line.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("rpc: post %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError wraps a non-null "error" member of a reply. Raw is the member verbatim.
type RemoteError struct {
	Raw []byte
}

func (e *RemoteError) Error() string {
	return "rpc: server error: " + string(e.Raw)
}

// Message returns the error text when the server sent a JSON string or a
// {"message": ...} object, and the raw member otherwise.
func (e *RemoteError) Message() string {
	var text string
	if err := json.Unmarshal(e.Raw, &text); err == nil {
		return text
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(e.Raw)
}
