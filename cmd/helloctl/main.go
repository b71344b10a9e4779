// Command helloctl calls HelloService over a raw socket or HTTP.
//
//	helloctl socket --name cc        # {"jsonrpc":"2.0","method":"HelloService.Hello","params":["cc"],"id":0}
//	helloctl http --name John        # POST http://localhost:1234/hello, prints status and reply
//	helloctl hello --name John       # typed stub, optional etcd discovery
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
