// Package hello is the typed client side of the remote HelloService.
package hello

import (
	"context"
	"fmt"

	"hello-rpc/client"
)

// ServiceName is the name the remote service is registered under.
const ServiceName = "HelloService"

// Caller is satisfied by *client.Client.
type Caller interface {
	Call(ctx context.Context, serviceMethod string, args any, reply any) error
}

var _ Caller = (*client.Client)(nil)

// Stub wraps a Caller so HelloService can be used like a local value.
type Stub struct {
	caller Caller
}

func NewStub(caller Caller) *Stub {
	return &Stub{caller: caller}
}

// Hello asks the service to greet name.
func (s *Stub) Hello(ctx context.Context, name string) (string, error) {
	var reply string
	if err := s.caller.Call(ctx, ServiceName+".Hello", name, &reply); err != nil {
		return "", fmt.Errorf("%s.Hello: %w", ServiceName, err)
	}
	return reply, nil
}
