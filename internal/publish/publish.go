package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/perhitsiksha/events-ingest/internal/domain"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
)

// Publisher persists the normalized dataset and sweeps media files no event
// references anymore.
type Publisher struct {
	outputFile   string
	mediaDir     string
	publicPrefix string
	logger       logger.Logger
}

func New(cfg *config.Config, log logger.Logger) *Publisher {
	return &Publisher{
		outputFile:   cfg.Output.File,
		mediaDir:     cfg.Media.Dir,
		publicPrefix: cfg.Media.PublicPrefix,
		logger:       log,
	}
}

// WriteEvents writes the event list as pretty-printed JSON via a temp file
// and rename, so readers never observe a partially written dataset.
func (p *Publisher) WriteEvents(events []domain.Event) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(p.outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	tmp := p.outputFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write events file: %w", err)
	}
	if err := os.Rename(tmp, p.outputFile); err != nil {
		return fmt.Errorf("rename events file: %w", err)
	}

	p.logger.Info("Wrote events dataset", "path", p.outputFile, "events", len(events))
	return nil
}

// SweepOrphans deletes every file in the media directory that no surviving
// event references. Deletion failures are logged, never fatal. Must run
// strictly after all downloads of the run have completed.
func (p *Publisher) SweepOrphans(events []domain.Event) {
	entries, err := os.ReadDir(p.mediaDir)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn("Failed to read media dir for cleanup", "dir", p.mediaDir, "error", err)
		}
		return
	}

	referenced := make(map[string]struct{})
	for i := range events {
		for _, ref := range events[i].LocalMediaRefs(p.publicPrefix) {
			referenced[path.Base(ref)] = struct{}{}
		}
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(p.mediaDir, entry.Name())); err != nil {
			p.logger.Warn("Failed to remove orphaned media file", "file", entry.Name(), "error", err)
			continue
		}
		p.logger.Debug("Removed orphaned media file", "file", entry.Name())
		removed++
	}

	p.logger.Info("Media cleanup finished", "removed", removed, "kept", len(referenced))
}
