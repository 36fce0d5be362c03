package pipelineimpl

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/perhitsiksha/events-ingest/internal/domain"
	"github.com/perhitsiksha/events-ingest/internal/lock"
	"github.com/perhitsiksha/events-ingest/internal/publish"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
)

// fakeDownloader maps remote URLs onto deterministic public paths without
// touching the network. URLs in fail error out; URLs in delay sleep first to
// simulate heterogeneous download latency.
type fakeDownloader struct {
	mu    sync.Mutex
	fail  map[string]bool
	delay map[string]time.Duration
	calls []string
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{
		fail:  make(map[string]bool),
		delay: make(map[string]time.Duration),
	}
}

func (f *fakeDownloader) Download(_ context.Context, remoteURL, filename string) (string, error) {
	if d, ok := f.delay[remoteURL]; ok {
		time.Sleep(d)
	}

	f.mu.Lock()
	f.calls = append(f.calls, remoteURL)
	f.mu.Unlock()

	if f.fail[remoteURL] {
		return "", errors.New("download failed")
	}
	return path.Join("/images/facebook-events", filename), nil
}

type fakeFacebook struct {
	posts []domain.RawPost
	err   error
	calls int
}

func (f *fakeFacebook) FetchPagePosts(context.Context, int) ([]domain.RawPost, error) {
	f.calls++
	return f.posts, f.err
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(message string) {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Facebook.MaxPosts = 25
	cfg.Pipeline.MaxEvents = 15
	cfg.Pipeline.MaxAlbumItems = 12
	cfg.Pipeline.MinMessageLen = 20
	cfg.Media.Dir = t.TempDir()
	cfg.Media.PublicPrefix = "/images/facebook-events"
	cfg.Media.Concurrency = 4
	cfg.Output.File = filepath.Join(t.TempDir(), "events.json")
	cfg.Lock.File = filepath.Join(t.TempDir(), "run.lock")
	cfg.Lock.StaleAfter = 30 * time.Minute
	return cfg
}

func newTestPipeline(t *testing.T, cfg *config.Config, fb *fakeFacebook, dl *fakeDownloader) *PipelineImpl {
	t.Helper()
	log := logger.NewNop()
	return New(Opts{
		Facebook:   fb,
		Downloader: dl,
		Notifier:   &fakeNotifier{},
		Lock:       lock.New(cfg, log),
		Publisher:  publish.New(cfg, log),
		Logger:     log,
		Config:     cfg,
	})
}

const qualifyingMessage = "Scholarship distribution ceremony at the community center today."

func photoPost(id, src string) domain.RawPost {
	return domain.RawPost{
		ID:           id,
		Message:      qualifyingMessage,
		CreatedTime:  "2025-03-14T10:30:00+0000",
		PermalinkURL: "https://www.facebook.com/perhitsiksha/posts/" + id,
		Attachments: domain.AttachmentList{Data: []domain.Attachment{
			{
				MediaType: "photo",
				Media:     &domain.Media{Image: &domain.Image{Src: src}},
			},
		}},
	}
}

func videoPost(id, thumbSrc string) domain.RawPost {
	att := domain.Attachment{Type: "video_inline", MediaType: "video"}
	if thumbSrc != "" {
		att.Media = &domain.Media{Image: &domain.Image{Src: thumbSrc}}
	}
	return domain.RawPost{
		ID:           id,
		Message:      qualifyingMessage,
		CreatedTime:  "2025-03-14T10:30:00+0000",
		PermalinkURL: "https://www.facebook.com/perhitsiksha/posts/" + id,
		Attachments:  domain.AttachmentList{Data: []domain.Attachment{att}},
	}
}

func albumPost(id string, children ...domain.Attachment) domain.RawPost {
	return domain.RawPost{
		ID:           id,
		Message:      qualifyingMessage,
		CreatedTime:  "2025-03-14T10:30:00+0000",
		PermalinkURL: "https://www.facebook.com/perhitsiksha/posts/" + id,
		Attachments: domain.AttachmentList{Data: []domain.Attachment{
			{
				Type:           "album",
				MediaType:      "photo",
				Subattachments: domain.AttachmentList{Data: children},
			},
		}},
	}
}

func photoChild(src string) domain.Attachment {
	return domain.Attachment{
		MediaType: "photo",
		Media:     &domain.Media{Image: &domain.Image{Src: src}},
		Target:    &domain.Target{ID: path.Base(src)},
	}
}

func videoChild(targetURL, thumbSrc string) domain.Attachment {
	att := domain.Attachment{MediaType: "video"}
	if targetURL != "" {
		att.Target = &domain.Target{ID: "v1", URL: targetURL}
	}
	if thumbSrc != "" {
		att.Media = &domain.Media{Image: &domain.Image{Src: thumbSrc}}
	}
	return att
}
