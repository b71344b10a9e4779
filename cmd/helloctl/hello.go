package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"hello-rpc/client"
	"hello-rpc/hello"
	"hello-rpc/loadbalance"
	"hello-rpc/resolver"
	"hello-rpc/transport"
)

func (a *app) helloCmd() *cobra.Command {
	var (
		name    string
		binding string
	)
	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Greet through the typed HelloService stub",
		Long: "Greet through the typed HelloService stub. When resolver.etcd_endpoints is set " +
			"the target is looked up in etcd, otherwise the socket or http settings are used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			greeting, err := a.runHello(cmd.Context(), binding, name)
			if err != nil {
				return err
			}
			a.printf("%s\n", greeting)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "John", "name to greet")
	cmd.Flags().StringVar(&binding, "binding", "socket", "socket or http")
	return cmd
}

func (a *app) runHello(ctx context.Context, binding, name string) (string, error) {
	topts := append(a.cfg.TransportOptions(), transport.WithLogger(a.logger))

	var (
		tr     transport.Transport
		target string
	)
	switch binding {
	case "socket":
		tr = transport.NewSocketTransport(topts...)
		target = net.JoinHostPort(a.cfg.Socket.Host, strconv.Itoa(a.cfg.Socket.Port))
	case "http":
		tr = transport.NewHTTPTransport(topts...)
		target = a.cfg.HTTP.URL
	default:
		return "", fmt.Errorf("unknown binding %q", binding)
	}

	copts := []client.Option{
		client.WithVersionTag(a.cfg.Client.VersionTag),
		client.WithMiddleware(a.middlewares()...),
		client.WithLogger(a.logger),
	}
	if len(a.cfg.Resolver.EtcdEndpoints) > 0 {
		r, err := resolver.NewEtcdResolver(a.cfg.Resolver.EtcdEndpoints, a.cfg.Resolver.Prefix,
			a.cfg.Resolver.DialTimeout, a.logger)
		if err != nil {
			return "", err
		}
		defer r.Close()
		b, err := loadbalance.New(a.cfg.Client.Balancer)
		if err != nil {
			return "", err
		}
		copts = append(copts, client.WithResolver(r, b))
	} else {
		copts = append(copts, client.WithTarget(target))
	}

	cli, err := client.New(tr, copts...)
	if err != nil {
		return "", err
	}
	defer cli.Close()
	// HTTP calls start at id 1.
	if binding == "http" {
		cli.NextID()
	}
	return hello.NewStub(cli).Hello(ctx, name)
}
