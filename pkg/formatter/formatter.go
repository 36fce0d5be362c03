package formatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the human-readable date format used in published events.
const DateLayout = "January 2, 2006"

// Graph API created_time comes back with a numeric zone offset; accept plain
// RFC3339 too so fixtures are easy to write.
var createdTimeLayouts = []string{
	"2006-01-02T15:04:05Z0700",
	time.RFC3339,
}

// FormatDate converts a Graph API created_time into the published layout.
func FormatDate(createdTime string) (string, error) {
	for _, layout := range createdTimeLayouts {
		if t, err := time.Parse(layout, createdTime); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized created_time %q", createdTime)
}

// Title returns the first line of a post message, truncated to max runes
// with a trailing ellipsis.
func Title(message string, max int) string {
	line := message
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		line = message[:i]
	}
	line = strings.TrimSpace(line)

	runes := []rune(line)
	if len(runes) <= max {
		return line
	}
	return string(runes[:max]) + "..."
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-]+`)

// SanitizeID makes an identifier safe for filesystem and URL use.
func SanitizeID(id string) string {
	return strings.Trim(unsafeChars.ReplaceAllString(id, "-"), "-")
}

// MediaFilename derives the deterministic local filename for a media slot.
// The same post/media pair always maps to the same file, which is what makes
// the downloader's cache-by-path check work across runs.
func MediaFilename(postID, mediaID string) string {
	return SanitizeID(postID) + "_" + SanitizeID(mediaID) + ".jpg"
}
