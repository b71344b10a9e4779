package middleware

import (
	"context"
	"fmt"
	"time"

	"hello-rpc/message"
	"hello-rpc/rpcerr"
)

type result struct {
	resp *message.Response
	err  error
}

// Timeout bounds the whole call, including any stage that ignores ctx.
func Timeout(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan result, 1)
			go func() {
				resp, err := next(ctx, req)
				done <- result{resp, err}
			}()

			select {
			case r := <-done:
				return r.resp, r.err
			case <-ctx.Done():
				return nil, fmt.Errorf("%s timed out after %v: %w: %w", req.Method, timeout, rpcerr.ErrReadTimeout, ctx.Err())
			}
		}
	}
}
