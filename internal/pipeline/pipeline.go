package pipeline

import "context"

// Client runs the ingestion pipeline.
type Client interface {
	// Run executes one full ingestion: lock, fetch, transform, publish,
	// cleanup, unlock. A fresh foreign lock is a clean no-op.
	Run(ctx context.Context) error

	// ScheduleRuns keeps the process resident and executes Run on the
	// configured cron expression until ctx is cancelled.
	ScheduleRuns(ctx context.Context) error
}
