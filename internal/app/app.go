package app

import (
	"context"
	"time"

	"github.com/perhitsiksha/events-ingest/internal/facebook"
	"github.com/perhitsiksha/events-ingest/internal/facebook/facebookimpl"
	"github.com/perhitsiksha/events-ingest/internal/lock"
	"github.com/perhitsiksha/events-ingest/internal/media"
	"github.com/perhitsiksha/events-ingest/internal/media/mediaimpl"
	"github.com/perhitsiksha/events-ingest/internal/notify"
	"github.com/perhitsiksha/events-ingest/internal/notify/notifyimpl"
	"github.com/perhitsiksha/events-ingest/internal/pipeline"
	"github.com/perhitsiksha/events-ingest/internal/pipeline/pipelineimpl"
	"github.com/perhitsiksha/events-ingest/internal/publish"
	"github.com/perhitsiksha/events-ingest/internal/ratelimit"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
	),
	fx.Provide(
		fx.Annotate(
			facebookimpl.New,
			fx.As(new(facebook.Client)),
		), fx.Annotate(
			mediaimpl.New,
			fx.As(new(media.Downloader)),
		), fx.Annotate(
			notifyimpl.New,
			fx.As(new(notify.Client)),
		), fx.Annotate(
			pipelineimpl.New,
			fx.As(new(pipeline.Client)),
		),
	),
	fx.Provide(
		lock.New,
		publish.New,
		func() ratelimit.Limiter {
			// Up to 5 download requests per second per CDN host.
			return ratelimit.NewPerHostLimiter(5, time.Second, 5)
		},
	),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, log logger.Logger, cfg *config.Config,
	pClient pipeline.Client, nClient notify.Client) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Scheduled mode keeps the process resident until a signal.
			if cfg.Pipeline.Cron != "" {
				return pClient.ScheduleRuns(context.Background())
			}

			// Batch mode: one run, then shut the app down with the
			// matching exit code.
			go func() {
				if err := pClient.Run(context.Background()); err != nil {
					log.Error("Ingestion run failed", "error", err)
					nClient.Notify("Facebook events ingestion failed: " + err.Error())
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}
