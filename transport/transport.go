// Package transport carries encoded requests to a remote JSON-RPC service and returns the raw reply.
//
// Two bindings of the same single-shot exchange are provided:
//
//	SocketTransport: dial → write all bytes → read one reply (bounded buffer) → close
//	HTTPTransport:   POST application/json → read the whole body
//
// Both are stateless: nothing is shared between calls and every call opens and
// releases its own resources. Neither retries. Every blocking step honors the
// caller's context and the configured timeouts, so a silent peer cannot block forever.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"hello-rpc/rpcerr"
)

// Transport is the binding-independent view used by the client.
// target is "host:port" for the socket binding and a URL for the HTTP binding.
type Transport interface {
	Exchange(ctx context.Context, target string, payload []byte) ([]byte, error)
}

var (
	_ Transport = (*SocketTransport)(nil)
	_ Transport = (*HTTPTransport)(nil)
)

// deadline picks the earlier of the context deadline and now+timeout.
// The zero time means no deadline.
func deadline(ctx context.Context, timeout time.Duration) time.Time {
	var d time.Time
	if timeout > 0 {
		d = time.Now().Add(timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (d.IsZero() || ctxDeadline.Before(d)) {
		d = ctxDeadline
	}
	return d
}

// classify maps cancellation and expired deadlines onto the error taxonomy.
func classify(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w: %w", op, rpcerr.ErrReadTimeout, ctxErr)
		}
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	// The I/O deadline can fire a moment before the context notices its own.
	if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
		return fmt.Errorf("%s: %w: %w", op, rpcerr.ErrReadTimeout, context.DeadlineExceeded)
	}
	if isTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, rpcerr.ErrReadTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
