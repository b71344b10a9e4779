package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"hello-rpc/codec"
	"hello-rpc/hello"
	"hello-rpc/message"
	"hello-rpc/rpcerr"
	"hello-rpc/transport"
)

func (a *app) httpCmd() *cobra.Command {
	var (
		name       string
		id         int
		versionTag string
	)
	cmd := &cobra.Command{
		Use:   "http",
		Short: "POST HelloService.Hello to the HTTP endpoint and print status and reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHTTP(cmd.Context(), name, id, versionTag)
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "John", "name to greet")
	f.IntVar(&id, "id", 1, "request id")
	f.StringVar(&versionTag, "version-tag", "", `"jsonrpc" member, empty to omit`)
	f.String("url", "http://localhost:1234/hello", "endpoint URL")
	f.Bool("strict-status", true, "fail on a non-2xx status")
	a.bind("http.url", f.Lookup("url"))
	a.bind("http.strict_status", f.Lookup("strict-status"))
	return cmd
}

// runHTTP prints the status line before the body so a failing status is still visible.
func (a *app) runHTTP(ctx context.Context, name string, id int, versionTag string) error {
	req, err := message.NewRequest(hello.ServiceName+".Hello", []any{name}, id)
	if err != nil {
		return err
	}
	req.JSONRPC = versionTag

	c := &codec.JSONCodec{}
	payload, err := codec.EncodeRequest(c, req)
	if err != nil {
		return err
	}

	if a.cfg.Timeouts.Call > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeouts.Call)
		defer cancel()
	}

	tr := transport.NewHTTPTransport(append(a.cfg.TransportOptions(), transport.WithLogger(a.logger))...)
	status, body, err := tr.Post(ctx, a.cfg.HTTP.URL, payload)
	var statusErr *rpcerr.HTTPStatusError
	switch {
	case errors.As(err, &statusErr):
		a.printf("status: %d\n", statusErr.StatusCode)
		return err
	case err != nil:
		return err
	}
	a.printf("status: %d\n", status)

	reply, err := codec.DecodeMap(c, body)
	if err != nil {
		return err
	}
	out, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	a.printf("%s\n", out)
	return nil
}
