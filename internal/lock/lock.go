package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
)

// ErrHeld means another run holds a fresh lock. Callers treat this as a
// clean no-op, not a failure.
var ErrHeld = errors.New("lock held by another run")

// Manager guards the pipeline against concurrent runs with a marker file.
// A marker older than StaleAfter is presumed left by a crashed run and is
// removed.
type Manager struct {
	path       string
	staleAfter time.Duration
	logger     logger.Logger
}

func New(cfg *config.Config, log logger.Logger) *Manager {
	return &Manager{
		path:       cfg.Lock.File,
		staleAfter: cfg.Lock.StaleAfter,
		logger:     log,
	}
}

// Acquire creates the lock marker exclusively. A fresh foreign lock yields
// ErrHeld; a stale one is cleared and acquisition retried once.
func (m *Manager) Acquire() error {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(m.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			return f.Close()
		}
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create lock file %s: %w", m.path, err)
		}

		info, statErr := os.Stat(m.path)
		if statErr != nil {
			if errors.Is(statErr, fs.ErrNotExist) {
				// Holder released between our open and stat.
				continue
			}
			return fmt.Errorf("stat lock file %s: %w", m.path, statErr)
		}

		age := time.Since(info.ModTime())
		if age < m.staleAfter {
			return ErrHeld
		}

		m.logger.Warn("Removing stale lock file",
			"path", m.path,
			"age", age.Round(time.Second).String())
		if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove stale lock file %s: %w", m.path, err)
		}
	}
	return ErrHeld
}

// Release removes the marker. Safe to call when the lock is already gone.
func (m *Manager) Release() {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("Failed to remove lock file", "path", m.path, "error", err)
	}
}
