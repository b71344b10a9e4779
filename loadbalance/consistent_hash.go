package loadbalance

import (
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
	"sync"

	"hello-rpc/resolver"
)

// ConsistentHashBalancer maps keys onto a hash ring of virtual nodes, 100 per endpoint,
// so the same key keeps reaching the same endpoint while the set is unchanged.
// The ring is rebuilt only when the endpoint set changes.
type ConsistentHashBalancer struct {
	replicas int

	mu          sync.Mutex
	fingerprint string
	ring        []uint32       // Sorted hash values
	nodes       map[uint32]int // Hash value → index into endpoints
}

func NewConsistentHashBalancer() *ConsistentHashBalancer {
	return &ConsistentHashBalancer{replicas: 100}
}

func (b *ConsistentHashBalancer) Pick(key string, endpoints []resolver.Endpoint) (*resolver.Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, errNoEndpoints
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if fp := fingerprint(endpoints); fp != b.fingerprint {
		b.build(endpoints)
		b.fingerprint = fp
	}

	hash := crc32.ChecksumIEEE([]byte(key))
	// First node clockwise from the key, wrapping past the end.
	idx := sort.Search(len(b.ring), func(i int) bool {
		return b.ring[i] >= hash
	})
	if idx == len(b.ring) {
		idx = 0
	}
	return &endpoints[b.nodes[b.ring[idx]]], nil
}

func (b *ConsistentHashBalancer) build(endpoints []resolver.Endpoint) {
	b.ring = make([]uint32, 0, len(endpoints)*b.replicas)
	b.nodes = make(map[uint32]int, len(endpoints)*b.replicas)
	for i, ep := range endpoints {
		for r := 0; r < b.replicas; r++ {
			hash := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", ep.Addr, r)))
			b.ring = append(b.ring, hash)
			b.nodes[hash] = i
		}
	}
	sort.Slice(b.ring, func(i, j int) bool {
		return b.ring[i] < b.ring[j]
	})
}

func fingerprint(endpoints []resolver.Endpoint) string {
	addrs := make([]string, len(endpoints))
	for i, ep := range endpoints {
		addrs[i] = ep.Addr
	}
	return strings.Join(addrs, ",")
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}
