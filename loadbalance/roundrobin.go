package loadbalance

import (
	"sync/atomic"

	"hello-rpc/resolver"
)

// RoundRobinBalancer cycles through the endpoints in order with a lock-free counter.
type RoundRobinBalancer struct {
	counter atomic.Uint64
}

func (b *RoundRobinBalancer) Pick(_ string, endpoints []resolver.Endpoint) (*resolver.Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, errNoEndpoints
	}
	index := (b.counter.Add(1) - 1) % uint64(len(endpoints))
	return &endpoints[index], nil
}

func (b *RoundRobinBalancer) Name() string {
	return "RoundRobin"
}
