package pipelineimpl

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/perhitsiksha/events-ingest/internal/domain"
	"github.com/perhitsiksha/events-ingest/pkg/formatter"
)

const (
	titleMaxRunes = 100
	ctaText       = "View on Facebook"
)

// transformPosts classifies posts in upstream order, stopping once the
// configured number of events has been emitted. A failure inside a single
// post is logged and skipped; the run continues.
func (p *PipelineImpl) transformPosts(ctx context.Context, posts []domain.RawPost) []domain.Event {
	events := make([]domain.Event, 0, p.Config.Pipeline.MaxEvents)

	for i := range posts {
		if len(events) >= p.Config.Pipeline.MaxEvents {
			p.Logger.Info("Event cap reached, skipping remaining posts",
				"cap", p.Config.Pipeline.MaxEvents,
				"remaining", len(posts)-i)
			break
		}

		ev, err := p.transformPost(ctx, &posts[i])
		if err != nil {
			p.Logger.Error("Failed to transform post, skipping", "post", posts[i].ID, "error", err)
			continue
		}
		if ev == nil {
			continue
		}
		events = append(events, *ev)
	}

	return events
}

// transformPost turns one raw post into an event, or (nil, nil) when the
// post does not qualify.
func (p *PipelineImpl) transformPost(ctx context.Context, post *domain.RawPost) (*domain.Event, error) {
	att := post.PrimaryAttachment()
	if att == nil {
		p.Logger.Debug("Skipping post without attachment", "post", post.ID)
		return nil, nil
	}
	if utf8.RuneCountInString(post.Message) < p.Config.Pipeline.MinMessageLen {
		p.Logger.Debug("Skipping post with short message",
			"post", post.ID,
			"length", utf8.RuneCountInString(post.Message))
		return nil, nil
	}

	date, err := formatter.FormatDate(post.CreatedTime)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", post.ID, err)
	}

	ev := &domain.Event{
		ID:          formatter.SanitizeID(post.ID),
		Title:       formatter.Title(post.Message, titleMaxRunes),
		Description: post.Message,
		Date:        date,
		CTAText:     ctaText,
		CTALink:     post.PermalinkURL,
	}

	switch {
	case att.IsAlbum():
		p.buildAlbum(ctx, post, att, ev)

	case att.MediaType == "photo" && att.ImageSrc() != "":
		p.buildSingleImage(ctx, post, att, ev)

	case att.MediaType == "video" || att.Type == "video_inline":
		p.buildSingleVideo(ctx, post, att, ev)

	default:
		p.Logger.Warn("Unrecognized attachment shape, treating post as text",
			"post", post.ID,
			"type", att.Type,
			"mediaType", att.MediaType)
		ev.MediaType = domain.MediaTypeText
	}

	return ev, nil
}

// buildSingleImage downloads the post's one photo. If the download fails the
// event degrades to text instead of keeping a dangling image reference.
func (p *PipelineImpl) buildSingleImage(ctx context.Context, post *domain.RawPost, att *domain.Attachment, ev *domain.Event) {
	filename := formatter.MediaFilename(post.ID, "primary")
	pub, err := p.Downloader.Download(ctx, att.ImageSrc(), filename)
	if err != nil {
		p.Logger.Warn("Image download failed, degrading event to text", "post", post.ID, "error", err)
		ev.MediaType = domain.MediaTypeText
		return
	}

	ev.MediaType = domain.MediaTypeImage
	ev.Image = pub
	ev.ImageAlt = ev.Title
}

// buildSingleVideo always plays through the post permalink; outside albums
// the API exposes no per-video link. The poster image is best effort.
func (p *PipelineImpl) buildSingleVideo(ctx context.Context, post *domain.RawPost, att *domain.Attachment, ev *domain.Event) {
	ev.MediaType = domain.MediaTypeVideo
	ev.VideoURL = post.PermalinkURL

	if src := att.ImageSrc(); src != "" {
		filename := formatter.MediaFilename(post.ID, "poster")
		pub, err := p.Downloader.Download(ctx, src, filename)
		if err != nil {
			p.Logger.Warn("Video poster download failed, keeping event without poster", "post", post.ID, "error", err)
			return
		}
		ev.Image = pub
		ev.ImageAlt = ev.Title
	}
}
