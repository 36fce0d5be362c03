package mediaimpl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/perhitsiksha/events-ingest/internal/media"
	"github.com/perhitsiksha/events-ingest/internal/ratelimit"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
	"github.com/perhitsiksha/events-ingest/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config  *config.Config
	Logger  logger.Logger
	Limiter ratelimit.Limiter
}

type DownloaderImpl struct {
	cfg     *config.Config
	logger  logger.Logger
	limiter ratelimit.Limiter
	http    *http.Client
}

func New(opts Opts) *DownloaderImpl {
	return &DownloaderImpl{
		cfg:     opts.Config,
		logger:  opts.Logger,
		limiter: opts.Limiter,
		http: &http.Client{
			Timeout: opts.Config.Media.DownloadTimeout,
		},
	}
}

var _ media.Downloader = (*DownloaderImpl)(nil)

func (d *DownloaderImpl) Download(ctx context.Context, remoteURL, filename string) (string, error) {
	target := filepath.Join(d.cfg.Media.Dir, filename)
	publicPath := path.Join(d.cfg.Media.PublicPrefix, filename)

	// Cache check comes before any network access. Deterministic filenames
	// mean a file that exists is the same logical slot from a prior run.
	if _, err := os.Stat(target); err == nil {
		d.logger.Debug("Media already cached", "file", filename)
		return publicPath, nil
	}

	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", fmt.Errorf("parse media url: %w", err)
	}
	if err := d.limiter.Wait(ctx, u.Host); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	var body []byte
	err = retry.Do(ctx, d.logger, "download "+filename, func() error {
		b, fetchErr := d.fetch(ctx, remoteURL)
		if fetchErr != nil {
			return fetchErr
		}
		body = b
		return nil
	}, retry.FixedConfig(d.cfg.Media.RetryAttempts, d.cfg.Media.RetryDelay))
	if err != nil {
		return "", fmt.Errorf("download %s: %w", remoteURL, err)
	}

	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image %s: %w", filename, err)
	}

	// Fit within the max width, never upscale.
	if img.Bounds().Dx() > d.cfg.Media.MaxWidth {
		img = imaging.Resize(img, d.cfg.Media.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(d.cfg.Media.JPEGQuality)); err != nil {
		return "", fmt.Errorf("encode jpeg %s: %w", filename, err)
	}

	if err := os.MkdirAll(d.cfg.Media.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a half file that
	// a later run would treat as a cache hit.
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", fmt.Errorf("rename media file: %w", err)
	}

	d.logger.Info("Downloaded media", "file", filename, "bytes", buf.Len())
	return publicPath, nil
}

func (d *DownloaderImpl) fetch(ctx context.Context, remoteURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
