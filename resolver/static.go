package resolver

import (
	"context"
	"fmt"
	"sync"
)

// Static serves endpoints from memory; it backs configuration-driven setups and tests.
// Set pushes the new list to every active watcher of the service.
type Static struct {
	mu        sync.RWMutex
	endpoints map[string][]Endpoint
	watchers  map[string]map[chan []Endpoint]struct{}
}

func NewStatic() *Static {
	return &Static{
		endpoints: make(map[string][]Endpoint),
		watchers:  make(map[string]map[chan []Endpoint]struct{}),
	}
}

// Set replaces the endpoints of service.
func (s *Static) Set(service string, endpoints ...Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints[service] = append([]Endpoint(nil), endpoints...)
	for ch := range s.watchers[service] {
		offer(ch, append([]Endpoint(nil), endpoints...))
	}
}

func (s *Static) Resolve(ctx context.Context, service string) ([]Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	eps := s.endpoints[service]
	if len(eps) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoEndpoints, service)
	}
	return append([]Endpoint(nil), eps...), nil
}

// Watch emits the current list, then every list passed to Set, until ctx is done.
// A slow reader only sees the latest list.
func (s *Static) Watch(ctx context.Context, service string) <-chan []Endpoint {
	ch := make(chan []Endpoint, 1)

	s.mu.Lock()
	if eps := s.endpoints[service]; len(eps) > 0 {
		ch <- append([]Endpoint(nil), eps...)
	}
	if s.watchers[service] == nil {
		s.watchers[service] = make(map[chan []Endpoint]struct{})
	}
	s.watchers[service][ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers[service], ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// offer replaces whatever is pending in ch with eps. Callers hold s.mu, so ch has no
// other sender.
func offer(ch chan []Endpoint, eps []Endpoint) {
	select {
	case <-ch:
	default:
	}
	ch <- eps
}
