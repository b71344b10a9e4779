package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"hello-rpc/message"
	"hello-rpc/rpcerr"
)

// RateLimit throttles outgoing calls with a token bucket; calls over the limit fail fast
// with rpcerr.ErrRateLimited instead of queueing.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			if !limiter.Allow() {
				return nil, rpcerr.ErrRateLimited
			}
			return next(ctx, req)
		}
	}
}
