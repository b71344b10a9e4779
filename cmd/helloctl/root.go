package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hello-rpc/config"
	"hello-rpc/logs"
	"hello-rpc/middleware"
)

// app is the state shared by every subcommand once the root has run.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
	closeFn func() error
	out     io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: config.NewViper(), out: out, closeFn: func() error { return nil }}
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "helloctl",
		Short:         "HelloService JSON-RPC client",
		Long:          "Sends one JSON-RPC request to HelloService over a raw socket or HTTP and prints the reply",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, configPath)
			if err != nil {
				return err
			}
			logger, closer, err := logs.SetupLogger(cfg.Log)
			if err != nil {
				return err
			}
			if closer != nil {
				a.closeFn = closer.Close
			}
			a.cfg = cfg
			a.logger = logger
			slog.SetDefault(logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeFn()
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	rootCmd.SetOut(out)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.String("log-format", "text", "text or json")
	pf.String("log-output", "stderr", "stdout, stderr or a directory for rotated log files")
	pf.Duration("timeout", 0, "overall deadline for the call, 0 for none")
	a.bind("log.level", pf.Lookup("log-level"))
	a.bind("log.format", pf.Lookup("log-format"))
	a.bind("log.output", pf.Lookup("log-output"))
	a.bind("timeouts.call", pf.Lookup("timeout"))

	rootCmd.AddCommand(a.socketCmd(), a.httpCmd(), a.helloCmd())
	return rootCmd
}

func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}

// middlewares builds the client chain from configuration.
func (a *app) middlewares() []middleware.Middleware {
	mws := []middleware.Middleware{middleware.Logging(a.logger)}
	if a.cfg.Client.RateLimit > 0 {
		mws = append(mws, middleware.RateLimit(a.cfg.Client.RateLimit, a.cfg.Client.Burst))
	}
	if a.cfg.Timeouts.Call > 0 {
		mws = append(mws, middleware.Timeout(a.cfg.Timeouts.Call))
	}
	return mws
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
