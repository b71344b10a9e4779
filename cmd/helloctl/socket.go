package main

import (
	"context"
	"encoding/json"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"hello-rpc/client"
	"hello-rpc/hello"
	"hello-rpc/message"
	"hello-rpc/transport"
)

func (a *app) socketCmd() *cobra.Command {
	var (
		name       string
		id         int
		versionTag string
	)
	cmd := &cobra.Command{
		Use:   "socket",
		Short: "Send HelloService.Hello over a raw TCP socket and print the reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSocket(cmd.Context(), name, id, versionTag)
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "cc", "name to greet")
	f.IntVar(&id, "id", 0, "request id")
	f.StringVar(&versionTag, "version-tag", message.Version, `"jsonrpc" member, empty to omit`)
	f.String("host", "localhost", "server host")
	f.Int("port", 1234, "server port")
	f.Int("buffer-size", transport.DefaultBufferSize, "bytes read for the reply")
	f.String("framing", "raw", "raw, newline or length-prefix")
	f.Bool("strict", false, "report replies that do not fit the buffer")
	a.bind("socket.host", f.Lookup("host"))
	a.bind("socket.port", f.Lookup("port"))
	a.bind("socket.buffer_size", f.Lookup("buffer-size"))
	a.bind("socket.framing", f.Lookup("framing"))
	a.bind("socket.strict", f.Lookup("strict"))
	return cmd
}

func (a *app) runSocket(ctx context.Context, name string, id int, versionTag string) error {
	sc := a.cfg.Socket
	tr := transport.NewSocketTransport(append(a.cfg.TransportOptions(), transport.WithLogger(a.logger))...)
	cli, err := client.New(tr,
		client.WithTarget(net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port))),
		client.WithMiddleware(a.middlewares()...),
		client.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	req, err := cli.NewRequest(hello.ServiceName+".Hello", []any{name})
	if err != nil {
		return err
	}
	req.ID = id
	req.JSONRPC = versionTag

	resp, err := cli.Invoke(ctx, req)
	if err != nil {
		return err
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	a.printf("%s\n", out)
	return nil
}
