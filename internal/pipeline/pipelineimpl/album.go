package pipelineimpl

import (
	"context"
	"fmt"

	"github.com/perhitsiksha/events-ingest/internal/domain"
	"github.com/perhitsiksha/events-ingest/pkg/formatter"
	"golang.org/x/sync/errgroup"
)

// buildAlbum processes album children under a bounded worker pool. Results
// land in an index-addressed slice so the published media order always
// matches the upstream child order no matter when downloads complete.
func (p *PipelineImpl) buildAlbum(ctx context.Context, post *domain.RawPost, att *domain.Attachment, ev *domain.Event) {
	children := att.Subattachments.Data
	if max := p.Config.Pipeline.MaxAlbumItems; len(children) > max {
		p.Logger.Debug("Album truncated to item cap", "post", post.ID, "cap", max, "total", len(children))
		children = children[:max]
	}

	results := make([]*domain.MediaItem, len(children))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Media.Concurrency)
	for i := range children {
		i := i
		g.Go(func() error {
			results[i] = p.buildMediaItem(gctx, post, &children[i], i)
			return nil
		})
	}
	// Workers absorb their own failures and report them as nil slots.
	_ = g.Wait()

	items := make([]domain.MediaItem, 0, len(children))
	thumbnail := ""
	for _, r := range results {
		if r == nil {
			continue
		}
		if thumbnail == "" && r.Type == "image" {
			thumbnail = r.URL
		}
		items = append(items, *r)
	}

	// Cover fallback: first video thumbnail when no photo survived.
	if thumbnail == "" {
		for _, item := range items {
			if item.Type == "video" && item.Thumbnail != "" {
				thumbnail = item.Thumbnail
				break
			}
		}
	}

	// An album card must be renderable. No cover or no media means the
	// event ships as plain text rather than a dead link.
	if thumbnail == "" || len(items) == 0 {
		p.Logger.Warn("Album has no usable media, demoting event to text", "post", post.ID, "attempted", len(children))
		ev.MediaType = domain.MediaTypeText
		return
	}

	ev.MediaType = domain.MediaTypeAlbum
	ev.ThumbnailImage = thumbnail
	ev.ThumbnailAlt = ev.Title
	ev.Media = items
	ev.MediaCount = len(items)
}

func (p *PipelineImpl) buildMediaItem(ctx context.Context, post *domain.RawPost, child *domain.Attachment, idx int) *domain.MediaItem {
	alt := fmt.Sprintf("%s - media %d", formatter.Title(post.Message, titleMaxRunes), idx+1)

	switch {
	case child.MediaType == "photo" && child.ImageSrc() != "":
		pub, err := p.Downloader.Download(ctx, child.ImageSrc(), formatter.MediaFilename(post.ID, childID(child, idx)))
		if err != nil {
			p.Logger.Warn("Dropping album photo after failed download", "post", post.ID, "item", idx, "error", err)
			return nil
		}
		return &domain.MediaItem{Type: "image", URL: pub, Alt: alt}

	case child.MediaType == "video":
		playable := post.PermalinkURL
		if child.Target != nil && child.Target.URL != "" {
			playable = child.Target.URL
		}
		item := &domain.MediaItem{Type: "video", URL: playable, Alt: alt}

		// A video stays useful without its thumbnail, unlike a photo.
		if src := child.ImageSrc(); src != "" {
			pub, err := p.Downloader.Download(ctx, src, formatter.MediaFilename(post.ID, childID(child, idx)+"-thumb"))
			if err != nil {
				p.Logger.Warn("Keeping album video without thumbnail", "post", post.ID, "item", idx, "error", err)
			} else {
				item.Thumbnail = pub
			}
		}
		return item

	default:
		p.Logger.Debug("Dropping unrecognized album item", "post", post.ID, "item", idx, "mediaType", child.MediaType)
		return nil
	}
}

func childID(child *domain.Attachment, idx int) string {
	if child.Target != nil && child.Target.ID != "" {
		return child.Target.ID
	}
	return fmt.Sprintf("item-%d", idx)
}
