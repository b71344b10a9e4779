// Package resolver maps a service name to the endpoints that currently serve it.
//
// Resolution is read-only: this module never registers anything, it only looks up
// what an operator (or the services themselves) published.
package resolver

import (
	"context"
	"errors"
)

// ErrNoEndpoints is returned when a service has nothing published.
var ErrNoEndpoints = errors.New("resolver: no endpoints for service")

// Endpoint is one place a service can be reached: "host:port" for the socket
// binding, a URL for the HTTP binding.
type Endpoint struct {
	Addr    string
	Weight  int // Weight for load balancing
	Version string
}

type Resolver interface {
	Resolve(ctx context.Context, service string) ([]Endpoint, error)
	// Watch emits the full endpoint list whenever it changes, until ctx is done.
	Watch(ctx context.Context, service string) <-chan []Endpoint
}
