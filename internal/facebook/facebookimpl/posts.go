package facebookimpl

import (
	"context"
	"fmt"

	fb "github.com/huandu/facebook/v2"
	"github.com/perhitsiksha/events-ingest/internal/domain"
)

// postFields is the exact nested attachment graph the transformer depends
// on. Two levels deep: attachments plus their subattachments for albums.
const postFields = "id,message,created_time,permalink_url," +
	"attachments{type,media_type,media,target,url," +
	"subattachments{type,media_type,media,target,url}}"

func (f *FacebookImpl) FetchPagePosts(ctx context.Context, limit int) ([]domain.RawPost, error) {
	f.logger.Info("Fetching page posts", "pageID", f.pageID, "limit", limit)

	res, err := f.session.WithContext(ctx).Get(fmt.Sprintf("/%s/posts", f.pageID), fb.Params{
		"fields": postFields,
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch posts for page %s: %w", f.pageID, err)
	}

	var posts []domain.RawPost
	if err := res.DecodeField("data", &posts); err != nil {
		return nil, fmt.Errorf("decode posts response: %w", err)
	}

	f.logger.Info("Fetched page posts", "count", len(posts))
	return posts, nil
}
