package resolver

// etcd is used as a read-only phonebook:
//
//	Key:   {prefix}/{ServiceName}/{Addr}
//	Value: JSON-encoded Endpoint
//
// Entries are typically written with a TTL lease by whoever runs the service, so a
// crashed instance disappears on its own.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const DefaultPrefix = "/hello-rpc"

// EtcdResolver implements Resolver on etcd v3.
type EtcdResolver struct {
	client *clientv3.Client // Thread-safe, shared across goroutines
	prefix string
	logger *slog.Logger
}

// NewEtcdResolver connects to the given etcd endpoints. An empty prefix means DefaultPrefix.
func NewEtcdResolver(endpoints []string, prefix string, dialTimeout time.Duration, logger *slog.Logger) (*EtcdResolver, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("resolver: connect etcd %v: %w", endpoints, err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EtcdResolver{client: c, prefix: strings.TrimSuffix(prefix, "/"), logger: logger}, nil
}

func (r *EtcdResolver) servicePrefix(service string) string {
	return r.prefix + "/" + service + "/"
}

// Resolve returns every endpoint currently published under the service prefix.
// Malformed entries are skipped.
func (r *EtcdResolver) Resolve(ctx context.Context, service string) ([]Endpoint, error) {
	resp, err := r.client.Get(ctx, r.servicePrefix(service), clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("resolver: get %s: %w", service, err)
	}

	endpoints := make([]Endpoint, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var ep Endpoint
		if err := json.Unmarshal(kv.Value, &ep); err != nil {
			r.logger.Warn("skipping malformed endpoint", slog.String("key", string(kv.Key)), slog.String("err", err.Error()))
			continue
		}
		endpoints = append(endpoints, ep)
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoEndpoints, service)
	}
	return endpoints, nil
}

// Watch re-resolves on every change under the service prefix (server push, no polling).
// The channel is closed when ctx is done.
func (r *EtcdResolver) Watch(ctx context.Context, service string) <-chan []Endpoint {
	ch := make(chan []Endpoint, 1)

	go func() {
		defer close(ch)
		watchChan := r.client.Watch(ctx, r.servicePrefix(service), clientv3.WithPrefix())
		for range watchChan {
			// Simpler than applying individual events.
			endpoints, err := r.Resolve(ctx, service)
			if err != nil {
				endpoints = nil
			}
			select {
			case ch <- endpoints:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

func (r *EtcdResolver) Close() error {
	return r.client.Close()
}
