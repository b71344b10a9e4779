package transport

import (
	"log/slog"
	"net/http"
	"time"

	"hello-rpc/protocol"
)

// DefaultBufferSize matches the single recv(1024) of the historical socket client.
const DefaultBufferSize = 1024

type Options struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Socket binding
	BufferSize int
	Framing    protocol.Framing
	Strict     bool // Report ErrTruncated instead of returning a cut reply

	// HTTP binding
	HTTPClient   *http.Client
	StrictStatus bool // Report non-2xx as *rpcerr.HTTPStatusError

	Logger *slog.Logger
}

// DefaultOptions returns hardened defaults: bounded waits, historical raw framing,
// status checking on for HTTP.
func DefaultOptions() *Options {
	return &Options{
		DialTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,

		BufferSize: DefaultBufferSize,
		Framing:    protocol.FramingRaw,

		StrictStatus: true,
	}
}

type Option func(*Options)

func WithDialTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.DialTimeout = timeout
	}
}

func WithReadTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.ReadTimeout = timeout
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.WriteTimeout = timeout
	}
}

func WithBufferSize(size int) Option {
	return func(opts *Options) {
		opts.BufferSize = size
	}
}

func WithFraming(f protocol.Framing) Option {
	return func(opts *Options) {
		opts.Framing = f
	}
}

// WithStrict turns silent truncation of raw reads into rpcerr.ErrTruncated.
func WithStrict(strict bool) Option {
	return func(opts *Options) {
		opts.Strict = strict
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}

// WithStrictStatus controls whether non-2xx replies fail. Off returns the body unchanged.
func WithStrictStatus(strict bool) Option {
	return func(opts *Options) {
		opts.StrictStatus = strict
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func buildOptions(options []Option) *Options {
	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}
