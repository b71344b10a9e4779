package loadbalance

import (
	"math/rand/v2"

	"hello-rpc/resolver"
)

// WeightedRandomBalancer picks with probability proportional to Endpoint.Weight.
// Endpoints with no positive weight are only picked when none has one.
type WeightedRandomBalancer struct{}

func (b *WeightedRandomBalancer) Pick(_ string, endpoints []resolver.Endpoint) (*resolver.Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, errNoEndpoints
	}

	totalWeight := 0
	for _, ep := range endpoints {
		if ep.Weight > 0 {
			totalWeight += ep.Weight
		}
	}
	if totalWeight == 0 {
		return &endpoints[rand.IntN(len(endpoints))], nil
	}

	r := rand.IntN(totalWeight)
	for i := range endpoints {
		if endpoints[i].Weight <= 0 {
			continue
		}
		r -= endpoints[i].Weight
		if r < 0 {
			return &endpoints[i], nil
		}
	}
	return &endpoints[len(endpoints)-1], nil
}

func (b *WeightedRandomBalancer) Name() string {
	return "WeightedRandom"
}
