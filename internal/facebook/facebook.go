package facebook

import (
	"context"

	"github.com/perhitsiksha/events-ingest/internal/domain"
)

// Client fetches page posts from the Graph API.
type Client interface {
	// FetchPagePosts returns up to limit posts, most recent first as
	// ordered by the Graph API. Any transport or API error fails the
	// whole fetch; there is no partial result.
	FetchPagePosts(ctx context.Context, limit int) ([]domain.RawPost, error)
}
