package video

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"github.com/mintnote/extract/internal/errdefs"
)

// timedText mirrors the caption payload: a flat list of <text> segments
// under a single root element.
type timedText struct {
	Texts []struct {
		Content string `xml:",chardata"`
	} `xml:"text"`
}

// FetchCaptions downloads one track's timed-text payload and returns the
// decoded transcript.
func (w *WatchPage) FetchCaptions(ctx context.Context, track CaptionTrack) (string, error) {
	body, _, err := w.Client.Get(ctx, track.SourceURL)
	if err != nil {
		return "", err
	}
	return DecodeTimedText(body)
}

// DecodeTimedText parses a timed-text XML payload and joins the segments
// into one transcript string. Segment text is entity-decoded twice: once by
// the XML decoder and once more because the platform pre-encodes entities
// inside the text nodes, so "&amp;#39;" must come out as "'".
func DecodeTimedText(payload []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(payload, &tt); err != nil {
		return "", fmt.Errorf("timed-text payload: %w: %v", errdefs.ErrParseFailed, err)
	}
	parts := make([]string, 0, len(tt.Texts))
	for _, seg := range tt.Texts {
		s := strings.TrimSpace(html.UnescapeString(seg.Content))
		if s != "" {
			parts = append(parts, s)
		}
	}
	joined := strings.Join(parts, " ")
	if joined == "" {
		return "", fmt.Errorf("caption payload has no text: %w", errdefs.ErrInsufficientContent)
	}
	return joined, nil
}
