package pipelineimpl

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/perhitsiksha/events-ingest/internal/facebook"
	"github.com/perhitsiksha/events-ingest/internal/lock"
	"github.com/perhitsiksha/events-ingest/internal/media"
	"github.com/perhitsiksha/events-ingest/internal/notify"
	"github.com/perhitsiksha/events-ingest/internal/pipeline"
	"github.com/perhitsiksha/events-ingest/internal/publish"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Facebook   facebook.Client
	Downloader media.Downloader
	Notifier   notify.Client
	Lock       *lock.Manager
	Publisher  *publish.Publisher
	Logger     logger.Logger
	Config     *config.Config
}

type PipelineImpl struct {
	Facebook   facebook.Client
	Downloader media.Downloader
	Notifier   notify.Client
	Lock       *lock.Manager
	Publisher  *publish.Publisher
	Logger     logger.Logger
	Config     *config.Config
	Scheduler  gocron.Scheduler
}

func New(opts Opts) *PipelineImpl {
	return &PipelineImpl{
		Facebook:   opts.Facebook,
		Downloader: opts.Downloader,
		Notifier:   opts.Notifier,
		Lock:       opts.Lock,
		Publisher:  opts.Publisher,
		Logger:     opts.Logger,
		Config:     opts.Config,
	}
}

var _ pipeline.Client = (*PipelineImpl)(nil)

func (p *PipelineImpl) Run(ctx context.Context) error {
	if err := p.Lock.Acquire(); err != nil {
		if errors.Is(err, lock.ErrHeld) {
			p.Logger.Info("Another ingestion run holds the lock, nothing to do")
			return nil
		}
		return fmt.Errorf("acquire run lock: %w", err)
	}
	defer p.Lock.Release()

	posts, err := p.Facebook.FetchPagePosts(ctx, p.Config.Facebook.MaxPosts)
	if err != nil {
		return err
	}

	events := p.transformPosts(ctx, posts)

	if err := p.Publisher.WriteEvents(events); err != nil {
		return err
	}

	// Cleanup only after every download of this run has finished, so a
	// freshly written file is never mistaken for an orphan.
	p.Publisher.SweepOrphans(events)

	p.Logger.Info("Ingestion run finished", "posts", len(posts), "events", len(events))
	p.Notifier.Notify(fmt.Sprintf("Facebook events ingestion finished: %d events published from %d posts", len(events), len(posts)))
	return nil
}
