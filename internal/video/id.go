// Package video retrieves transcripts for platform-hosted videos. The happy
// path scrapes the watch page for its caption track list and downloads the
// timed-text payload; when any of that fails in an expected way the
// retriever escalates through an ordered tier list that ends in an
// AI-generated summary built from page metadata.
package video

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mintnote/extract/internal/errdefs"
)

// urlShapes covers the accepted reference forms: watch page, short link,
// embed, shorts, and the legacy /v/ path. Scheme and www/m/music prefixes
// are optional because pasted references frequently omit them.
var urlShapes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.|music\.)?youtube\.com/watch\?(?:[^#\s]*&)?v=([A-Za-z0-9_-]{5,})`),
	regexp.MustCompile(`(?i)^(?:https?://)?youtu\.be/([A-Za-z0-9_-]{5,})`),
	regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/embed/([A-Za-z0-9_-]{5,})`),
	regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([A-Za-z0-9_-]{5,})`),
	regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/v/([A-Za-z0-9_-]{5,})`),
	regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/live/([A-Za-z0-9_-]{5,})`),
}

// MatchesURL reports whether input has one of the accepted video URL shapes.
// It is scheme-tolerant so a pasted "youtu.be/xyz12" still counts.
func MatchesURL(input string) bool {
	input = strings.TrimSpace(input)
	for _, re := range urlShapes {
		if re.MatchString(input) {
			return true
		}
	}
	return false
}

// ParseID extracts the platform-assigned video identifier from any accepted
// URL shape. Failure is fatal for retrieval: without an identifier there is
// no page to scrape and no metadata to fall back on.
func ParseID(input string) (string, error) {
	input = strings.TrimSpace(input)
	for _, re := range urlShapes {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("no video id in %q: %w", input, errdefs.ErrInvalidReference)
}
