// Package config loads client settings from defaults, an optional YAML file,
// HELLORPC_* environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"hello-rpc/protocol"
	"hello-rpc/transport"
)

// EnvPrefix prefixes every environment override, e.g. HELLORPC_SOCKET_PORT.
const EnvPrefix = "HELLORPC"

type Config struct {
	Socket   Socket   `mapstructure:"socket"`
	HTTP     HTTP     `mapstructure:"http"`
	Timeouts Timeouts `mapstructure:"timeouts"`
	Client   Client   `mapstructure:"client"`
	Resolver Resolver `mapstructure:"resolver"`
	Log      Log      `mapstructure:"log"`
}

type Socket struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	BufferSize int    `mapstructure:"buffer_size"`
	Framing    string `mapstructure:"framing"`
	Strict     bool   `mapstructure:"strict"`
}

type HTTP struct {
	URL          string `mapstructure:"url"`
	StrictStatus bool   `mapstructure:"strict_status"`
}

type Timeouts struct {
	Dial  time.Duration `mapstructure:"dial"`
	Read  time.Duration `mapstructure:"read"`
	Write time.Duration `mapstructure:"write"`
	Call  time.Duration `mapstructure:"call"`
}

type Client struct {
	VersionTag string  `mapstructure:"version_tag"`
	RateLimit  float64 `mapstructure:"rate_limit"` // Calls per second, 0 disables
	Burst      int     `mapstructure:"burst"`
	Balancer   string  `mapstructure:"balancer"`
}

type Resolver struct {
	EtcdEndpoints []string      `mapstructure:"etcd_endpoints"`
	Prefix        string        `mapstructure:"prefix"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
	Output string `mapstructure:"output"` // stdout, stderr or a directory for rotated files
}

// NewViper returns a viper instance with defaults and environment overrides wired.
func NewViper() *viper.Viper {
	v := viper.New()

	// defaults
	v.SetDefault("socket.host", "localhost")
	v.SetDefault("socket.port", 1234)
	v.SetDefault("socket.buffer_size", transport.DefaultBufferSize)
	v.SetDefault("socket.framing", "raw")
	v.SetDefault("socket.strict", false)
	v.SetDefault("http.url", "http://localhost:1234/hello")
	v.SetDefault("http.strict_status", true)
	v.SetDefault("timeouts.dial", "5s")
	v.SetDefault("timeouts.read", "10s")
	v.SetDefault("timeouts.write", "10s")
	v.SetDefault("timeouts.call", "0s")
	v.SetDefault("client.version_tag", "")
	v.SetDefault("client.rate_limit", 0.0)
	v.SetDefault("client.burst", 1)
	v.SetDefault("client.balancer", "round-robin")
	v.SetDefault("resolver.etcd_endpoints", []string{})
	v.SetDefault("resolver.prefix", "/hello-rpc")
	v.SetDefault("resolver.dial_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads path (skipped when empty) into v and unmarshals the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Socket.Port <= 0 || c.Socket.Port > 65535 {
		errs = append(errs, fmt.Errorf("socket.port out of range: %d", c.Socket.Port))
	}
	if c.Socket.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("socket.buffer_size must be positive: %d", c.Socket.BufferSize))
	}
	if _, err := protocol.ParseFraming(c.Socket.Framing); err != nil {
		errs = append(errs, fmt.Errorf("socket.framing: %w", err))
	}
	if c.Client.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit must not be negative: %v", c.Client.RateLimit))
	}
	return errors.Join(errs...)
}

// TransportOptions translates the settings shared by both bindings.
func (c *Config) TransportOptions() []transport.Option {
	framing, _ := protocol.ParseFraming(c.Socket.Framing)
	return []transport.Option{
		transport.WithDialTimeout(c.Timeouts.Dial),
		transport.WithReadTimeout(c.Timeouts.Read),
		transport.WithWriteTimeout(c.Timeouts.Write),
		transport.WithBufferSize(c.Socket.BufferSize),
		transport.WithFraming(framing),
		transport.WithStrict(c.Socket.Strict),
		transport.WithStrictStatus(c.HTTP.StrictStatus),
	}
}
