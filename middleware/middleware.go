// Package middleware wraps a client call in an onion of cross-cutting steps.
//
//	Chain(A, B, C)(invoke) → A(B(C(invoke)))
//	A.before → B.before → C.before → invoke → C.after → B.after → A.after
//
// Nothing here retries: a call is sent at most once.
package middleware

import (
	"context"

	"hello-rpc/message"
)

// HandlerFunc performs one call and returns the decoded reply.
type HandlerFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares; the first one listed runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
