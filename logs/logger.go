// Package logs builds the process logger from configuration.
// It uses the standard library's slog package for structured logging; file output
// is rotated by lumberjack.
package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"hello-rpc/config"
)

// FileName is the log file created inside a directory output.
const FileName = "helloctl.log"

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logs: unknown level %q", s)
}

// SetupLogger returns a logger and, for file output, the closer of the rotated file.
// The closer is nil for stdout and stderr, which the process keeps using.
func SetupLogger(o config.Log) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(o.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var (
		writer io.Writer
		closer io.Closer
	)
	switch o.Output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		file := &lumberjack.Logger{
			Filename:   filepath.Join(o.Output, FileName),
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		writer, closer = file, file
	}

	switch strings.ToLower(o.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(writer, handlerOpts)), closer, nil
	case "", "text":
		return slog.New(slog.NewTextHandler(writer, handlerOpts)), closer, nil
	}
	return nil, nil, fmt.Errorf("logs: unknown format %q", o.Format)
}
