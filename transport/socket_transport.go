package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"hello-rpc/protocol"
	"hello-rpc/rpcerr"
)

// SocketTransport sends one request per TCP connection.
//
//	Idle ──dial──→ Connected ──write all──→ AwaitingReply ──read──→ Done
//	  └──────────────┴─────────────────────────┴──────────────────→ Failed
//
// The connection is closed on every exit path.
type SocketTransport struct {
	opts   *Options
	dialer *net.Dialer
}

func NewSocketTransport(options ...Option) *SocketTransport {
	opts := buildOptions(options)
	return &SocketTransport{
		opts:   opts,
		dialer: &net.Dialer{},
	}
}

// CallSocket performs one exchange with default timeouts and the given read buffer.
func CallSocket(ctx context.Context, host string, port int, request []byte, bufferSize int) ([]byte, error) {
	return NewSocketTransport(WithBufferSize(bufferSize)).Call(ctx, host, port, request)
}

// Call dials host:port, writes request and returns the reply bytes.
func (t *SocketTransport) Call(ctx context.Context, host string, port int, request []byte) ([]byte, error) {
	return t.Exchange(ctx, net.JoinHostPort(host, strconv.Itoa(port)), request)
}

// Exchange is Call with a "host:port" target.
func (t *SocketTransport) Exchange(ctx context.Context, addr string, request []byte) ([]byte, error) {
	frame, err := protocol.Frame(t.opts.Framing, request)
	if err != nil {
		return nil, err
	}

	conn, err := t.dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// Cancellation unblocks any pending write or read by closing the connection.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	log := t.opts.Logger.With(slog.String("addr", addr), slog.String("framing", t.opts.Framing.String()))

	if err := conn.SetWriteDeadline(deadline(ctx, t.opts.WriteTimeout)); err != nil {
		return nil, fmt.Errorf("set write deadline failed: %w", err)
	}
	if n, err := writeFull(conn, frame); err != nil {
		return nil, &rpcerr.WriteError{Written: n, Err: classify(ctx, "write", err)}
	}
	log.Debug("request written", slog.Int("bytes", len(frame)))

	if err := conn.SetReadDeadline(deadline(ctx, t.opts.ReadTimeout)); err != nil {
		return nil, fmt.Errorf("set read deadline failed: %w", err)
	}
	reply, err := protocol.Decode(conn, t.opts.Framing, t.opts.BufferSize, t.opts.Strict)
	if err != nil {
		return nil, classify(ctx, "read from "+addr, err)
	}
	log.Debug("reply read", slog.Int("bytes", len(reply)), slog.Int("buffer", t.opts.BufferSize))

	return reply, nil
}

func (t *SocketTransport) dial(ctx context.Context, addr string) (net.Conn, error) {
	dialCtx := ctx
	if t.opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, t.opts.DialTimeout)
		defer cancel()
	}
	conn, err := t.dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, &rpcerr.ConnectionError{Addr: addr, Err: classify(dialCtx, "dial", err)}
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
	return conn, nil
}

// writeFull loops until every byte is flushed and reports how many made it out.
func writeFull(w net.Conn, b []byte) (int, error) {
	written := 0
	for written < len(b) {
		n, err := w.Write(b[written:])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
