package resolver

import (
	"context"
	"errors"
	"testing"
)

func TestStaticResolve(t *testing.T) {
	s := NewStatic()
	s.Set("HelloService", Endpoint{Addr: "127.0.0.1:1234", Weight: 10})

	eps, err := s.Resolve(context.Background(), "HelloService")
	if err != nil {
		t.Fatal(err)
	}
	if len(eps) != 1 || eps[0].Addr != "127.0.0.1:1234" {
		t.Fatalf("unexpected endpoints %v", eps)
	}

	// Callers get a copy.
	eps[0].Addr = "mutated"
	again, _ := s.Resolve(context.Background(), "HelloService")
	if again[0].Addr != "127.0.0.1:1234" {
		t.Fatalf("resolver state leaked: %v", again)
	}
}

func TestStaticResolveMissing(t *testing.T) {
	_, err := NewStatic().Resolve(context.Background(), "Nobody")
	if !errors.Is(err, ErrNoEndpoints) {
		t.Fatalf("expect ErrNoEndpoints, got %v", err)
	}
}

func TestStaticWatch(t *testing.T) {
	s := NewStatic()
	s.Set("HelloService", Endpoint{Addr: ":1"}, Endpoint{Addr: ":2"})

	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Watch(ctx, "HelloService")
	eps := <-ch
	if len(eps) != 2 {
		t.Fatalf("expect 2 endpoints, got %d", len(eps))
	}

	s.Set("HelloService", Endpoint{Addr: ":3"})
	eps = <-ch
	if len(eps) != 1 || eps[0].Addr != ":3" {
		t.Fatalf("expect the replaced list, got %v", eps)
	}

	// Only the latest list is kept for a slow reader.
	s.Set("HelloService", Endpoint{Addr: ":4"})
	s.Set("HelloService")
	if eps = <-ch; len(eps) != 0 {
		t.Fatalf("expect the empty list, got %v", eps)
	}
	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("expect channel closed after cancel")
	}
}
