package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/perhitsiksha/events-ingest/internal/domain"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/formatter"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
)

// EventReport lists everything wrong with one event.
type EventReport struct {
	Index  int
	ID     string
	Issues []string
}

type Report struct {
	Total  int
	Failed []EventReport
}

func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// Validator checks a persisted event dataset: structural conformance,
// cross-field consistency, URL formats, and referential integrity against
// the media directory. It evaluates every event before reporting.
type Validator struct {
	mediaDir     string
	publicPrefix string
	validate     *validator.Validate
	logger       logger.Logger
}

func New(cfg *config.Config, log logger.Logger) *Validator {
	return &Validator{
		mediaDir:     cfg.Media.Dir,
		publicPrefix: cfg.Media.PublicPrefix,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       log,
	}
}

// ValidateFile loads the dataset from disk and validates it. An unreadable
// or unparseable file is an error distinct from per-event failures.
func (v *Validator) ValidateFile(dataPath string) (*Report, error) {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse events file: %w", err)
	}

	return v.ValidateEvents(events), nil
}

func (v *Validator) ValidateEvents(events []domain.Event) *Report {
	report := &Report{Total: len(events)}

	seen := make(map[string]int)
	for i := range events {
		issues := v.checkEvent(&events[i])

		if prev, dup := seen[events[i].ID]; dup {
			issues = append(issues, fmt.Sprintf("duplicate id, first seen at index %d", prev))
		} else {
			seen[events[i].ID] = i
		}

		if len(issues) > 0 {
			report.Failed = append(report.Failed, EventReport{
				Index:  i,
				ID:     events[i].ID,
				Issues: issues,
			})
		}
	}

	return report
}

func (v *Validator) checkEvent(ev *domain.Event) []string {
	var issues []string

	if err := v.validate.Struct(ev); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				issues = append(issues, fmt.Sprintf("field %s fails %q rule", fe.Namespace(), fe.Tag()))
			}
		} else {
			issues = append(issues, err.Error())
		}
	}

	if ev.Date != "" {
		if _, err := time.Parse(formatter.DateLayout, ev.Date); err != nil {
			issues = append(issues, fmt.Sprintf("date %q does not match layout %q", ev.Date, formatter.DateLayout))
		}
	}

	issues = append(issues, v.checkMediaFields(ev)...)
	issues = append(issues, v.checkURLs(ev)...)
	issues = append(issues, v.checkReferences(ev)...)

	return issues
}

// checkMediaFields enforces that exactly the fields matching the mediaType
// are populated.
func (v *Validator) checkMediaFields(ev *domain.Event) []string {
	var issues []string

	switch ev.MediaType {
	case domain.MediaTypeImage:
		if ev.Image == "" {
			issues = append(issues, "image event has no image")
		}
		if ev.VideoURL != "" || len(ev.Media) > 0 || ev.ThumbnailImage != "" {
			issues = append(issues, "image event carries foreign media fields")
		}

	case domain.MediaTypeVideo:
		if ev.VideoURL == "" {
			issues = append(issues, "video event has no videoUrl")
		}
		if len(ev.Media) > 0 || ev.ThumbnailImage != "" {
			issues = append(issues, "video event carries album fields")
		}

	case domain.MediaTypeAlbum:
		if ev.ThumbnailImage == "" {
			issues = append(issues, "album event has no thumbnailImage")
		}
		if len(ev.Media) == 0 {
			issues = append(issues, "album event has empty media list")
		}
		if ev.MediaCount != len(ev.Media) {
			issues = append(issues, fmt.Sprintf("mediaCount %d does not match media length %d", ev.MediaCount, len(ev.Media)))
		}

	case domain.MediaTypeText:
		if ev.Image != "" || ev.VideoURL != "" || len(ev.Media) > 0 || ev.ThumbnailImage != "" {
			issues = append(issues, "text event carries media fields")
		}
	}

	return issues
}

func (v *Validator) checkURLs(ev *domain.Event) []string {
	var issues []string

	if ev.CTALink != "" && !isHTTPURL(ev.CTALink) {
		issues = append(issues, fmt.Sprintf("ctaLink %q is not an absolute http(s) url", ev.CTALink))
	}
	if ev.VideoURL != "" && !isHTTPURL(ev.VideoURL) {
		issues = append(issues, fmt.Sprintf("videoUrl %q is not an absolute http(s) url", ev.VideoURL))
	}
	if ev.Image != "" && !v.isLocalRef(ev.Image) {
		issues = append(issues, fmt.Sprintf("image %q is not a local media path", ev.Image))
	}
	if ev.ThumbnailImage != "" && !v.isLocalRef(ev.ThumbnailImage) {
		issues = append(issues, fmt.Sprintf("thumbnailImage %q is not a local media path", ev.ThumbnailImage))
	}

	for i, item := range ev.Media {
		switch item.Type {
		case "image":
			if !v.isLocalRef(item.URL) {
				issues = append(issues, fmt.Sprintf("media[%d] image url %q is not a local media path", i, item.URL))
			}
		case "video":
			if !isHTTPURL(item.URL) {
				issues = append(issues, fmt.Sprintf("media[%d] video url %q is not an absolute http(s) url", i, item.URL))
			}
		}
		if item.Thumbnail != "" && !v.isLocalRef(item.Thumbnail) {
			issues = append(issues, fmt.Sprintf("media[%d] thumbnail %q is not a local media path", i, item.Thumbnail))
		}
	}

	return issues
}

// checkReferences verifies every local path resolves to a file on disk.
func (v *Validator) checkReferences(ev *domain.Event) []string {
	var issues []string

	for _, ref := range ev.LocalMediaRefs(v.publicPrefix) {
		local := filepath.Join(v.mediaDir, path.Base(ref))
		if _, err := os.Stat(local); err != nil {
			issues = append(issues, fmt.Sprintf("referenced file %q does not exist", ref))
		}
	}

	return issues
}

func (v *Validator) isLocalRef(p string) bool {
	return strings.HasPrefix(p, v.publicPrefix+"/")
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
