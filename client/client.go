// Package client issues JSON-RPC calls over any transport binding.
//
// One Call is one request and at most one reply:
//
//	Call → build Request (next id) → middleware chain → pick target → encode
//	     → Transport.Exchange → decode → check id echo → remote error? → unmarshal result
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"hello-rpc/codec"
	"hello-rpc/loadbalance"
	"hello-rpc/message"
	"hello-rpc/middleware"
	"hello-rpc/resolver"
	"hello-rpc/rpcerr"
	"hello-rpc/transport"
)

type Client struct {
	transport  transport.Transport
	codec      codec.Codec
	target     string               // Fixed target, used when no resolver is set
	resolver   resolver.Resolver    // Service name → endpoints
	balancer   loadbalance.Balancer // Picks one endpoint per call
	versionTag string               // "" omits the jsonrpc member
	handler    middleware.HandlerFunc
	logger     *slog.Logger
	seq        atomic.Int64

	// Endpoints per service, refreshed by Resolver.Watch until Close.
	mu          sync.Mutex
	endpoints   map[string][]resolver.Endpoint
	watching    map[string]bool
	watchCtx    context.Context
	stopWatches context.CancelFunc
}

type options struct {
	codec       codec.Codec
	target      string
	resolver    resolver.Resolver
	balancer    loadbalance.Balancer
	versionTag  string
	middlewares []middleware.Middleware
	logger      *slog.Logger
}

type Option func(*options)

// WithTarget sends every call to addr ("host:port" or URL, matching the transport).
func WithTarget(addr string) Option {
	return func(o *options) {
		o.target = addr
	}
}

// WithResolver looks the target up per call; a nil balancer means round robin.
func WithResolver(r resolver.Resolver, b loadbalance.Balancer) Option {
	return func(o *options) {
		o.resolver = r
		o.balancer = b
	}
}

// WithVersionTag adds "jsonrpc": tag to every request, e.g. message.Version.
func WithVersionTag(tag string) Option {
	return func(o *options) {
		o.versionTag = tag
	}
}

// WithMiddleware appends middlewares; they run in the order given.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds a client. Either a target or a resolver is required.
func New(tr transport.Transport, opts ...Option) (*Client, error) {
	if tr == nil {
		return nil, errors.New("client: transport is required")
	}
	o := &options{codec: &codec.JSONCodec{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.target == "" && o.resolver == nil {
		return nil, errors.New("client: a target or a resolver is required")
	}
	if o.resolver != nil && o.balancer == nil {
		o.balancer = &loadbalance.RoundRobinBalancer{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	c := &Client{
		transport:  tr,
		codec:      o.codec,
		target:     o.target,
		resolver:   o.resolver,
		balancer:   o.balancer,
		versionTag: o.versionTag,
		logger:     o.logger,
	}
	if c.resolver != nil {
		c.endpoints = make(map[string][]resolver.Endpoint)
		c.watching = make(map[string]bool)
		c.watchCtx, c.stopWatches = context.WithCancel(context.Background())
	}
	// Built once, not per call.
	c.handler = middleware.Chain(o.middlewares...)(c.invoke)
	return c, nil
}

// NextID returns the id for the next request. Ids start at 0.
func (c *Client) NextID() int {
	return int(c.seq.Add(1) - 1)
}

// NewRequest builds the request Call would send. A slice args is sent as the params
// array itself, nil as an empty array, anything else (a []byte included) as the
// single parameter.
func (c *Client) NewRequest(serviceMethod string, args any) (*message.Request, error) {
	req, err := message.NewRequest(serviceMethod, toParams(args), c.NextID())
	if err != nil {
		return nil, fmt.Errorf("client: %q: %w", serviceMethod, err)
	}
	req.JSONRPC = c.versionTag
	return req, nil
}

func toParams(args any) []any {
	switch v := args.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []byte:
		return []any{v}
	}
	rv := reflect.ValueOf(args)
	if rv.Kind() != reflect.Slice {
		return []any{args}
	}
	params := make([]any, rv.Len())
	for i := range params {
		params[i] = rv.Index(i).Interface()
	}
	return params
}

// Call invokes serviceMethod with args and unmarshals the result into reply.
// A non-null error member is returned as *rpcerr.RemoteError. reply may be nil.
func (c *Client) Call(ctx context.Context, serviceMethod string, args any, reply any) error {
	req, err := c.NewRequest(serviceMethod, args)
	if err != nil {
		return err
	}

	resp, err := c.Invoke(ctx, req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if reply == nil {
		return nil
	}
	return resp.DecodeResult(reply)
}

// Invoke sends a prepared request through the middleware chain and returns the raw reply.
func (c *Client) Invoke(ctx context.Context, req *message.Request) (*message.Response, error) {
	return c.handler(ctx, req)
}

// invoke is the innermost handler: the actual exchange.
func (c *Client) invoke(ctx context.Context, req *message.Request) (*message.Response, error) {
	target, err := c.pickTarget(ctx, req.Method)
	if err != nil {
		return nil, err
	}

	payload, err := codec.EncodeRequest(c.codec, req)
	if err != nil {
		return nil, err
	}

	raw, err := c.transport.Exchange(ctx, target, payload)
	if err != nil {
		return nil, err
	}

	resp, err := codec.DecodeResponse(c.codec, raw)
	if err != nil {
		c.logger.Debug("undecodable reply", slog.String("target", target), slog.Int("bytes", len(raw)))
		return nil, err
	}
	if resp.ID != req.ID {
		return resp, fmt.Errorf("%w: sent %d, got %d", rpcerr.ErrIDMismatch, req.ID, resp.ID)
	}
	return resp, nil
}

func (c *Client) pickTarget(ctx context.Context, serviceMethod string) (string, error) {
	if c.resolver == nil {
		return c.target, nil
	}

	service, _, err := message.SplitMethod(serviceMethod)
	if err != nil {
		return "", err
	}

	endpoints, err := c.endpointsFor(ctx, service)
	if err != nil {
		return "", err
	}

	endpoint, err := c.balancer.Pick(service, endpoints)
	if err != nil {
		return "", fmt.Errorf("client: pick %s endpoint: %w", service, err)
	}
	return endpoint.Addr, nil
}

// endpointsFor serves from the cache. A miss resolves once and starts a watch that
// keeps the entry current.
func (c *Client) endpointsFor(ctx context.Context, service string) ([]resolver.Endpoint, error) {
	c.mu.Lock()
	endpoints, ok := c.endpoints[service]
	c.mu.Unlock()
	if ok {
		return endpoints, nil
	}

	endpoints, err := c.resolver.Resolve(ctx, service)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints[service] = endpoints
	if !c.watching[service] {
		c.watching[service] = true
		go c.watch(service)
	}
	return endpoints, nil
}

func (c *Client) watch(service string) {
	for endpoints := range c.resolver.Watch(c.watchCtx, service) {
		c.mu.Lock()
		if len(endpoints) == 0 {
			// Next call resolves again and reports ErrNoEndpoints if still empty.
			delete(c.endpoints, service)
		} else {
			c.endpoints[service] = endpoints
		}
		c.mu.Unlock()
		c.logger.Debug("endpoints updated", slog.String("service", service), slog.Int("count", len(endpoints)))
	}

	c.mu.Lock()
	delete(c.endpoints, service)
	delete(c.watching, service)
	c.mu.Unlock()
}

// Close stops the endpoint watches. Calls made afterwards resolve on every call.
func (c *Client) Close() error {
	if c.stopWatches != nil {
		c.stopWatches()
	}
	return nil
}
