package domain

// Graph API wire shapes. Posts are fetched fresh every run and never
// persisted; only the normalized events survive.

type RawPost struct {
	ID           string         `facebook:"id" json:"id"`
	Message      string         `facebook:"message" json:"message"`
	CreatedTime  string         `facebook:"created_time" json:"created_time"`
	PermalinkURL string         `facebook:"permalink_url" json:"permalink_url"`
	Attachments  AttachmentList `facebook:"attachments" json:"attachments"`
}

type AttachmentList struct {
	Data []Attachment `facebook:"data" json:"data"`
}

type Attachment struct {
	Type           string         `facebook:"type" json:"type"`
	MediaType      string         `facebook:"media_type" json:"media_type"`
	Media          *Media         `facebook:"media" json:"media"`
	Target         *Target        `facebook:"target" json:"target"`
	Subattachments AttachmentList `facebook:"subattachments" json:"subattachments"`
}

type Media struct {
	Image *Image `facebook:"image" json:"image"`
}

type Image struct {
	Src    string `facebook:"src" json:"src"`
	Width  int    `facebook:"width" json:"width"`
	Height int    `facebook:"height" json:"height"`
}

// Target carries the remote id and permalink of an individual attachment,
// notably the per-video playback link inside albums.
type Target struct {
	ID  string `facebook:"id" json:"id"`
	URL string `facebook:"url" json:"url"`
}

// PrimaryAttachment returns the post's first attachment, which describes the
// post's overall shape, or nil for text-only posts.
func (p *RawPost) PrimaryAttachment() *Attachment {
	if len(p.Attachments.Data) == 0 {
		return nil
	}
	return &p.Attachments.Data[0]
}

func (a *Attachment) ImageSrc() string {
	if a.Media == nil || a.Media.Image == nil {
		return ""
	}
	return a.Media.Image.Src
}

func (a *Attachment) IsAlbum() bool {
	return a.Type == "album" && len(a.Subattachments.Data) > 0
}
