package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/mintnote/extract/internal/errdefs"
	"github.com/mintnote/extract/internal/fetch"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// playerResponseMarker precedes the embedded player configuration object in
// the watch page markup.
const playerResponseMarker = "ytInitialPlayerResponse"

// playerResponse mirrors only the fragment of the player configuration the
// pipeline reads. Everything else in the object is ignored.
type playerResponse struct {
	VideoDetails struct {
		Title            string `json:"title"`
		ShortDescription string `json:"shortDescription"`
		Author           string `json:"author"`
		LengthSeconds    string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	Captions struct {
		Renderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// WatchPage scrapes the public watch page. It implements PageReader and is
// the only place in the package that touches upstream markup.
type WatchPage struct {
	Client *fetch.Client
	// BaseURL overrides the watch page origin, for tests against a local
	// server. Empty means the real platform.
	BaseURL string
}

func (w *WatchPage) watchURL(videoID string) string {
	if w.BaseURL != "" {
		return w.BaseURL + "/watch?v=" + videoID
	}
	return watchURLPrefix + videoID
}

// FetchMeta retrieves the watch page once and extracts title, description,
// channel name, and duration. The player configuration is the primary
// source; og:title and the <title> element cover pages that omit it.
func (w *WatchPage) FetchMeta(ctx context.Context, videoID string) (*PageMeta, error) {
	body, _, err := w.Client.Get(ctx, w.watchURL(videoID))
	if err != nil {
		return nil, err
	}
	meta := &PageMeta{VideoID: videoID}
	if pr, ok := locatePlayerResponse(body); ok {
		meta.Title = pr.VideoDetails.Title
		meta.Description = pr.VideoDetails.ShortDescription
		meta.Channel = pr.VideoDetails.Author
		if secs, convErr := strconv.Atoi(pr.VideoDetails.LengthSeconds); convErr == nil && secs > 0 {
			meta.DurationText = FormatDuration(secs)
		}
	}
	if meta.Title == "" {
		meta.Title = pageTitle(body)
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("watch page for %s has no recoverable metadata: %w", videoID, errdefs.ErrParseFailed)
	}
	return meta, nil
}

// FetchTracks re-retrieves the page and lists caption tracks from the
// player configuration.
func (w *WatchPage) FetchTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	body, _, err := w.Client.Get(ctx, w.watchURL(videoID))
	if err != nil {
		return nil, err
	}
	pr, ok := locatePlayerResponse(body)
	if !ok {
		return nil, fmt.Errorf("player configuration not found on watch page: %w", errdefs.ErrParseFailed)
	}
	raw := pr.Captions.Renderer.CaptionTracks
	tracks := make([]CaptionTrack, 0, len(raw))
	for _, t := range raw {
		if t.BaseURL == "" {
			continue
		}
		tracks = append(tracks, CaptionTrack{LanguageCode: t.LanguageCode, SourceURL: t.BaseURL})
	}
	return tracks, nil
}

// locatePlayerResponse finds the marker, slices the balanced JSON object
// that follows it, and decodes the fields of interest.
func locatePlayerResponse(body []byte) (*playerResponse, bool) {
	idx := bytes.Index(body, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, false
	}
	rest := body[idx:]
	start := bytes.IndexByte(rest, '{')
	if start < 0 {
		return nil, false
	}
	obj, ok := sliceJSONObject(rest[start:])
	if !ok {
		return nil, false
	}
	var pr playerResponse
	if err := json.Unmarshal(obj, &pr); err != nil {
		return nil, false
	}
	return &pr, true
}

// sliceJSONObject returns the balanced {...} prefix of b. String literals
// and escapes are honored so braces inside values do not end the scan early.
func sliceJSONObject(b []byte) ([]byte, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(b); i++ {
		c := b[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1], true
			}
		}
	}
	return nil, false
}

// pageTitle extracts a title from the markup itself: og:title first, then
// the <title> element with the platform suffix stripped.
func pageTitle(body []byte) string {
	node, err := html.Parse(bytes.NewReader(body))
	if err != nil || node == nil {
		return ""
	}
	if og := strings.TrimSpace(metaContent(node, "og:title")); og != "" {
		return og
	}
	t := findFirst(node, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	title := strings.TrimSpace(t.FirstChild.Data)
	title = strings.TrimSuffix(title, " - YouTube")
	return strings.TrimSpace(title)
}

func metaContent(n *html.Node, property string) string {
	var res string
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != "" {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, "meta") {
			var prop, content string
			for _, a := range cur.Attr {
				switch strings.ToLower(a.Key) {
				case "property", "name":
					prop = a.Val
				case "content":
					content = a.Val
				}
			}
			if strings.EqualFold(prop, property) && content != "" {
				res = content
				return
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != "" {
				return
			}
		}
	}
	dfs(n)
	return res
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

// FormatDuration renders a second count the way video players do: M:SS
// below an hour, H:MM:SS from an hour up.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
