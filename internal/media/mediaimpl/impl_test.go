package mediaimpl

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/perhitsiksha/events-ingest/internal/ratelimit"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Media.Dir = t.TempDir()
	cfg.Media.PublicPrefix = "/images/facebook-events"
	cfg.Media.DownloadTimeout = 5 * time.Second
	cfg.Media.MaxWidth = 50
	cfg.Media.JPEGQuality = 80
	cfg.Media.RetryAttempts = 2
	cfg.Media.RetryDelay = time.Millisecond
	return cfg
}

func newDownloader(cfg *config.Config) *DownloaderImpl {
	return New(Opts{
		Config:  cfg,
		Logger:  logger.NewNop(),
		Limiter: ratelimit.NewPerHostLimiter(100, time.Second, 100),
	})
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageServer(t *testing.T, width, height int) *httptest.Server {
	t.Helper()
	body := pngBytes(t, width, height)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload_WritesTranscodedFile(t *testing.T) {
	cfg := testConfig(t)
	srv := imageServer(t, 20, 20)
	d := newDownloader(cfg)

	pub, err := d.Download(context.Background(), srv.URL+"/a.png", "post_a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/images/facebook-events/post_a.jpg", pub)

	img, err := imaging.Open(filepath.Join(cfg.Media.Dir, "post_a.jpg"))
	require.NoError(t, err)
	// Under the max width, so no upscale happened.
	assert.Equal(t, 20, img.Bounds().Dx())
}

func TestDownload_ResizesToMaxWidth(t *testing.T) {
	cfg := testConfig(t)
	srv := imageServer(t, 200, 100)
	d := newDownloader(cfg)

	_, err := d.Download(context.Background(), srv.URL+"/wide.png", "post_wide.jpg")
	require.NoError(t, err)

	img, err := imaging.Open(filepath.Join(cfg.Media.Dir, "post_wide.jpg"))
	require.NoError(t, err)
	assert.Equal(t, cfg.Media.MaxWidth, img.Bounds().Dx())
	// Aspect ratio preserved.
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestDownload_CacheHitSkipsNetwork(t *testing.T) {
	cfg := testConfig(t)
	srv := imageServer(t, 20, 20)
	d := newDownloader(cfg)

	pub, err := d.Download(context.Background(), srv.URL+"/a.png", "cached.jpg")
	require.NoError(t, err)

	// Kill the server; a second call must serve from the cache.
	srv.Close()

	again, err := d.Download(context.Background(), "http://127.0.0.1:1/unreachable.png", "cached.jpg")
	require.NoError(t, err)
	assert.Equal(t, pub, again)
}

func TestDownload_RetriesExactlyTwice(t *testing.T) {
	cfg := testConfig(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	d := newDownloader(cfg)
	_, err := d.Download(context.Background(), srv.URL+"/broken.png", "broken.jpg")
	require.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())

	// Nothing half-written left behind.
	_, statErr := os.Stat(filepath.Join(cfg.Media.Dir, "broken.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownload_SucceedsAfterTransientFailure(t *testing.T) {
	cfg := testConfig(t)
	body := pngBytes(t, 20, 20)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	d := newDownloader(cfg)
	_, err := d.Download(context.Background(), srv.URL+"/flaky.png", "flaky.jpg")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestDownload_NonImagePayloadFails(t *testing.T) {
	cfg := testConfig(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an image</html>"))
	}))
	t.Cleanup(srv.Close)

	d := newDownloader(cfg)
	_, err := d.Download(context.Background(), srv.URL+"/page.html", "page.jpg")
	assert.Error(t, err)
}
