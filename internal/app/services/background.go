package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const backgroundTimeout = 10 * time.Second

// goBackground runs fn on a detached context so side work (view counters,
// read receipts, realtime fan-out, orphaned file cleanup) survives the
// request ending. Failures are logged and swallowed: by policy these paths
// never fail the primary operation.
func goBackground(logger zerolog.Logger, operation string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Str("operation", operation).Msg("Background task panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			logger.Warn().Err(err).Str("operation", operation).Msg("Background task failed")
		}
	}()
}
