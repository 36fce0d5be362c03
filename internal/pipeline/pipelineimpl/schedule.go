package pipelineimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleRuns keeps the process resident and runs the pipeline on the cron
// expression from INGEST_CRON.
func (p *PipelineImpl) ScheduleRuns(ctx context.Context) error {
	p.Logger.Info("Setting up scheduled ingestion", "cron", p.Config.Pipeline.Cron)

	if p.Scheduler == nil {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		p.Scheduler = scheduler
	}

	_, err := p.Scheduler.NewJob(
		gocron.CronJob(p.Config.Pipeline.Cron, false),
		gocron.NewTask(func() {
			p.Logger.Info("Running scheduled ingestion")

			runCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
			defer cancel()

			if err := p.Run(runCtx); err != nil {
				p.Logger.Error("Scheduled ingestion run failed", "error", err)
				p.Notifier.Notify("Facebook events ingestion failed: " + err.Error())
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("schedule ingestion runs: %w", err)
	}

	p.Scheduler.Start()

	go func() {
		<-ctx.Done()
		p.Logger.Info("Stopping ingestion scheduler")
		if err := p.Scheduler.Shutdown(); err != nil {
			p.Logger.Error("Failed to shut down scheduler", "error", err)
		}
	}()

	return nil
}
