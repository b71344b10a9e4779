// Package stubpeer provides in-process stand-ins for the remote HelloService: a TCP peer
// and a chi-routed HTTP peer. They reply with canned or computed bodies and exist so
// transports and clients can be exercised without a real server.
package stubpeer

import (
	"encoding/json"
	"fmt"

	"hello-rpc/codec"
)

// Replier turns one request body into one reply body.
type Replier func(request []byte) []byte

// Fixed always answers with body.
func Fixed(body string) Replier {
	return func([]byte) []byte {
		return []byte(body)
	}
}

// Hello answers HelloService.Hello calls with "Hello, <name>!" and echoes the id.
// Any other method gets a string error, the way net/rpc/jsonrpc reports it.
func Hello() Replier {
	cdc := &codec.JSONCodec{}
	return func(request []byte) []byte {
		reply := map[string]any{"id": nil, "result": nil, "error": nil}
		req, err := codec.DecodeRequest(cdc, request)
		if err != nil {
			reply["error"] = err.Error()
			return mustMarshal(reply)
		}
		reply["id"] = req.ID
		if req.Method != "HelloService.Hello" {
			reply["error"] = "rpc: can't find method " + req.Method
			return mustMarshal(reply)
		}
		if len(req.Params) != 1 {
			reply["error"] = fmt.Sprintf("expected 1 param, got %d", len(req.Params))
			return mustMarshal(reply)
		}
		reply["result"] = fmt.Sprintf("Hello, %v!", req.Params[0])
		return mustMarshal(reply)
	}
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
