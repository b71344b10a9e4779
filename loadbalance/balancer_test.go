package loadbalance

import (
	"fmt"
	"testing"

	"hello-rpc/resolver"
)

var testEndpoints = []resolver.Endpoint{
	{Addr: ":8001", Weight: 10, Version: "1.0"},
	{Addr: ":8002", Weight: 5, Version: "1.0"},
	{Addr: ":8003", Weight: 10, Version: "1.0"},
}

func TestRoundRobin(t *testing.T) {
	b := &RoundRobinBalancer{}

	for i := 0; i < 6; i++ {
		ep, err := b.Pick("HelloService", testEndpoints)
		if err != nil {
			t.Fatal(err)
		}
		if want := testEndpoints[i%3].Addr; ep.Addr != want {
			t.Fatalf("pick %d: expect %s, got %s", i, want, ep.Addr)
		}
	}
}

func TestEmptyEndpoints(t *testing.T) {
	for _, b := range []Balancer{&RoundRobinBalancer{}, &WeightedRandomBalancer{}, NewConsistentHashBalancer()} {
		if _, err := b.Pick("k", nil); err == nil {
			t.Fatalf("%s: expect error for empty endpoints", b.Name())
		}
	}
}

func TestWeightedRandom(t *testing.T) {
	b := &WeightedRandomBalancer{}

	counts := map[string]int{}
	n := 10000
	for i := 0; i < n; i++ {
		ep, err := b.Pick("", testEndpoints)
		if err != nil {
			t.Fatal(err)
		}
		counts[ep.Addr]++
	}

	// Weight ratio is 10:5:10, so :8001 and :8003 should be ~2x of :8002
	ratio := float64(counts[":8001"]) / float64(counts[":8002"])
	if ratio < 1.5 || ratio > 2.5 {
		t.Fatalf("weight ratio :8001/:8002 = %.2f, expect ~2.0", ratio)
	}
}

func TestWeightedRandomZeroWeights(t *testing.T) {
	b := &WeightedRandomBalancer{}
	eps := []resolver.Endpoint{{Addr: ":1"}, {Addr: ":2"}}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		ep, err := b.Pick("", eps)
		if err != nil {
			t.Fatal(err)
		}
		seen[ep.Addr] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expect both endpoints picked, got %v", seen)
	}
}

func TestConsistentHash(t *testing.T) {
	b := NewConsistentHashBalancer()

	// Same key should always map to the same endpoint
	ep1, _ := b.Pick("user-123", testEndpoints)
	ep2, _ := b.Pick("user-123", testEndpoints)
	if ep1.Addr != ep2.Addr {
		t.Fatalf("same key mapped to different endpoints: %s vs %s", ep1.Addr, ep2.Addr)
	}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ep, _ := b.Pick(fmt.Sprintf("key-%d", i), testEndpoints)
		seen[ep.Addr] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expect at least 2 different endpoints, got %d", len(seen))
	}

	// A shrunk set rebuilds the ring and still answers from it.
	ep, err := b.Pick("user-123", testEndpoints[:1])
	if err != nil || ep.Addr != ":8001" {
		t.Fatalf("expect :8001 from single-endpoint ring, got %v, %v", ep, err)
	}
}

func TestNew(t *testing.T) {
	for name, want := range map[string]string{
		"":                "RoundRobin",
		"weighted-random": "WeightedRandom",
		"consistent-hash": "ConsistentHash",
	} {
		b, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		if b.Name() != want {
			t.Errorf("New(%q) = %s, want %s", name, b.Name(), want)
		}
	}
	if _, err := New("random-walk"); err == nil {
		t.Fatal("expect error for unknown strategy")
	}
}
