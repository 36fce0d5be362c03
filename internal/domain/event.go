package domain

import "strings"

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAlbum MediaType = "album"
	MediaTypeText  MediaType = "text"
)

// Event is one publishable record derived from a qualifying page post. The
// MediaType decides which media fields are populated; text events carry none.
type Event struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Date        string    `json:"date" validate:"required"`
	MediaType   MediaType `json:"mediaType" validate:"required,oneof=image video album text"`

	// Populated for mediaType image; Image also serves as the optional
	// poster frame for video events.
	Image    string `json:"image,omitempty"`
	ImageAlt string `json:"imageAlt,omitempty"`

	// Populated for mediaType video.
	VideoURL string `json:"videoUrl,omitempty"`

	// Populated for mediaType album.
	ThumbnailImage string      `json:"thumbnailImage,omitempty"`
	ThumbnailAlt   string      `json:"thumbnailAlt,omitempty"`
	Media          []MediaItem `json:"media,omitempty"`
	MediaCount     int         `json:"mediaCount,omitempty"`

	CTAText string `json:"ctaText" validate:"required"`
	CTALink string `json:"ctaLink" validate:"required,url"`
}

// MediaItem is one child of an album. Image items point at a local file;
// video items point at the playable permalink and may carry a local
// thumbnail.
type MediaItem struct {
	Type      string `json:"type" validate:"required,oneof=image video"`
	URL       string `json:"url" validate:"required"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Alt       string `json:"alt"`
}

// LocalMediaRefs collects every field of the event that points into the
// local media directory. Used by orphan cleanup and referential validation.
func (e *Event) LocalMediaRefs(publicPrefix string) []string {
	var refs []string
	add := func(p string) {
		if p != "" && strings.HasPrefix(p, publicPrefix) {
			refs = append(refs, p)
		}
	}

	add(e.Image)
	add(e.ThumbnailImage)
	for _, m := range e.Media {
		add(m.URL)
		add(m.Thumbnail)
	}
	return refs
}
