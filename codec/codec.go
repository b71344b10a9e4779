// Package codec turns requests into bytes and bytes into responses.
//
// Only JSON travels on the wire, but the Codec interface stays pluggable so the
// client and transports never call encoding/json directly.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"hello-rpc/message"
	"hello-rpc/rpcerr"
)

type CodecType byte

const (
	CodecTypeJSON CodecType = 0
)

func (t CodecType) String() string {
	if t == CodecTypeJSON {
		return "json"
	}
	return fmt.Sprintf("codec(%d)", byte(t))
}

type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Type() CodecType
}

func GetCodec(codecType CodecType) (Codec, error) {
	if codecType == CodecTypeJSON {
		return &JSONCodec{}, nil
	}
	return nil, fmt.Errorf("codec: unsupported codec type %s", codecType)
}

var errNotObject = errors.New("top-level value is not an object")

// EncodeRequest serializes a request to UTF-8 bytes.
func EncodeRequest(c Codec, req *message.Request) ([]byte, error) {
	data, err := c.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("codec: encode %s: %w", req.Method, err)
	}
	return data, nil
}

// DecodeResponse parses a reply. Anything that is not a JSON object fails with
// *rpcerr.MalformedPayloadError.
func DecodeResponse(c Codec, data []byte) (*message.Response, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}
	var resp message.Response
	if err := c.Decode(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DecodeRequest parses a request; peers and tests use it to read what a client sent.
func DecodeRequest(c Codec, data []byte) (*message.Request, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}
	var req message.Request
	if err := c.Decode(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeMap parses a reply into an untyped mapping from member names to values.
func DecodeMap(c Codec, data []byte) (map[string]any, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}
	var m map[string]any
	if err := c.Decode(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func requireObject(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &rpcerr.MalformedPayloadError{Err: errNotObject}
	}
	return nil
}
