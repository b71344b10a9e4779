package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hello-rpc/message"
)

// Logging records every call with a fresh call id, its duration and outcome.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			log := logger.With(
				slog.String("call-id", uuid.NewString()),
				slog.String("method", req.Method),
				slog.Int("id", req.ID),
			)
			log.Debug("rpc call started")

			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				log.Warn("rpc call failed", slog.Duration("duration", duration), slog.String("err", err.Error()))
				return resp, err
			}
			log.Info("rpc call done", slog.Duration("duration", duration), slog.Bool("remote-error", resp.HasError()))
			return resp, nil
		}
	}
}
