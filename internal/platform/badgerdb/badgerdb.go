// Package badgerdb opens the embedded key-value store used when no PostgreSQL is configured.
package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// DefaultGCInterval is how often value log garbage collection runs.
const DefaultGCInterval = 5 * time.Minute

// Open opens a badger database under dataDir/registry. An empty dataDir opens
// an in-memory database, which tests use.
func Open(dataDir string, logger *slog.Logger) (*badger.DB, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var opts badger.Options
	if dataDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		opts = badger.DefaultOptions(filepath.Join(dataDir, "registry")).
			WithCompression(options.Snappy)
	}
	opts = opts.
		WithLogger(&slogAdapter{logger: logger.With("component", "badger")}).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// RunGC reclaims value log space until ctx is cancelled.
func RunGC(ctx context.Context, db *badger.DB, interval time.Duration, logger *slog.Logger) error {
	if db.Opts().InMemory {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for {
				err := db.RunValueLogGC(0.5)
				if err == nil {
					// Run it again if it just rewrote a file
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) && logger != nil {
					logger.WarnContext(ctx, "badger value log GC failed", "error", err)
				}
				break
			}
		}
	}
}

// slogAdapter routes badger's printf-style logging into slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Errorf(format string, args ...any) {
	a.logger.Error(fmt.Sprintf(format, args...))
}

func (a *slogAdapter) Warningf(format string, args ...any) {
	a.logger.Warn(fmt.Sprintf(format, args...))
}

func (a *slogAdapter) Infof(format string, args ...any) {
	a.logger.Info(fmt.Sprintf(format, args...))
}

func (a *slogAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(fmt.Sprintf(format, args...))
}
