// Package clock provides the logical block height stamped on minted credentials.
package clock

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Height is a monotonic logical clock. The zero value starts at height 0.
type Height struct {
	height atomic.Uint64
}

// New returns a clock starting at start.
func New(start uint64) *Height {
	h := &Height{}
	h.height.Store(start)
	return h
}

func (h *Height) Height(_ context.Context) uint64 {
	return h.height.Load()
}

// Advance moves the clock forward one block and returns the new height.
func (h *Height) Advance() uint64 {
	return h.height.Add(1)
}

// Run advances the clock every interval until ctx is done.
func (h *Height) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if logger != nil {
				logger.Info("block clock stopped", "height", h.height.Load())
			}
			return nil
		case <-ticker.C:
			h.Advance()
		}
	}
}
