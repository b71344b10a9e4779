// Package message defines the JSON-RPC request and response shapes exchanged with a remote service.
//
// Two request shapes are seen in the wild and both are accepted here:
//
//	socket binding: {"jsonrpc":"2.0","method":"HelloService.Hello","params":["cc"],"id":0}
//	http binding:   {"method":"HelloService.Hello","params":["John"],"id":1}
//
// The version tag is optional (omitted when empty); neither shape is treated as canonical.
package message

import (
	"bytes"
	"encoding/json"
	"strings"

	"hello-rpc/rpcerr"
)

// Version is the JSON-RPC version tag sent when a tag is requested.
const Version = "2.0"

// Request carries a single method call.
type Request struct {
	JSONRPC string `json:"jsonrpc,omitempty"` // Optional protocol version tag
	Method  string `json:"method"`            // Format: "ServiceName.MethodName", e.g., "HelloService.Hello"
	Params  []any  `json:"params"`            // Positional parameters, order preserved
	ID      int    `json:"id"`                // Identifies the one in-flight request
}

// Response carries a single reply. Result and Error are kept opaque; the id echoes the request.
type Response struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// NewRequest builds a request after checking the method is in Service.Method form.
// A nil params slice is sent as an empty array.
func NewRequest(method string, params []any, id int) (*Request, error) {
	if _, _, err := SplitMethod(method); err != nil {
		return nil, err
	}
	if params == nil {
		params = []any{}
	}
	return &Request{Method: method, Params: params, ID: id}, nil
}

// SplitMethod splits "Service.Method" into its two parts.
func SplitMethod(method string) (service, name string, err error) {
	split := strings.Split(method, ".")
	if len(split) != 2 || split[0] == "" || split[1] == "" {
		return "", "", rpcerr.ErrInvalidMethod
	}
	return split[0], split[1], nil
}

var null = []byte("null")

// HasError reports whether the reply carries a non-null error member.
func (r *Response) HasError() bool {
	return len(r.Error) > 0 && !bytes.Equal(bytes.TrimSpace(r.Error), null)
}

// HasResult reports whether the reply carries a non-null result member.
func (r *Response) HasResult() bool {
	return len(r.Result) > 0 && !bytes.Equal(bytes.TrimSpace(r.Result), null)
}

// DecodeResult unmarshals the result member into v.
func (r *Response) DecodeResult(v any) error {
	if !r.HasResult() {
		return nil
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return &rpcerr.MalformedPayloadError{Err: err}
	}
	return nil
}

// Err returns the server-reported error, or nil.
func (r *Response) Err() error {
	if !r.HasError() {
		return nil
	}
	return &rpcerr.RemoteError{Raw: append([]byte(nil), r.Error...)}
}
