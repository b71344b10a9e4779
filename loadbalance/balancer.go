// Package loadbalance picks the endpoint a call goes to when a service has several.
//
// Three strategies are implemented:
//   - RoundRobin:      equal-capacity endpoints
//   - WeightedRandom:  heterogeneous endpoints, by Endpoint.Weight
//   - ConsistentHash:  the same key always lands on the same endpoint
package loadbalance

import (
	"errors"
	"fmt"
	"strings"

	"hello-rpc/resolver"
)

var errNoEndpoints = errors.New("no endpoints available")

// Balancer selects one endpoint per call. Implementations must be goroutine-safe.
type Balancer interface {
	// Pick selects one endpoint. key identifies the call (the client passes the
	// service name); strategies that do not need affinity ignore it.
	Pick(key string, endpoints []resolver.Endpoint) (*resolver.Endpoint, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}

// New returns the balancer configured by name.
func New(name string) (Balancer, error) {
	switch strings.ToLower(name) {
	case "", "round-robin", "roundrobin":
		return &RoundRobinBalancer{}, nil
	case "weighted-random", "weightedrandom":
		return &WeightedRandomBalancer{}, nil
	case "consistent-hash", "consistenthash":
		return NewConsistentHashBalancer(), nil
	}
	return nil, fmt.Errorf("loadbalance: unknown strategy %q", name)
}
