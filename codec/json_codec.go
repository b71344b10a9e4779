package codec

import (
	"encoding/json"

	"hello-rpc/rpcerr"
)

// JSONCodec uses Go's standard library encoding/json for serialization.
// Decode failures are reported as *rpcerr.MalformedPayloadError.
type JSONCodec struct{}

func (c *JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &rpcerr.MalformedPayloadError{Err: err}
	}
	return nil
}

func (c *JSONCodec) Type() CodecType {
	return CodecTypeJSON
}
