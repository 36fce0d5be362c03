package media

import "context"

// Downloader fetches a remote image, transcodes it, and caches it under the
// local media directory.
type Downloader interface {
	// Download returns the public-relative path of the local file for the
	// given remote URL and deterministic filename. A non-nil error means
	// the media slot must be omitted by the caller; it never aborts a run.
	Download(ctx context.Context, remoteURL, filename string) (string, error)
}
