package video

import "context"

// PageMeta is everything the watch page reveals about a video before any
// caption track is touched. All fields except VideoID are best-effort.
type PageMeta struct {
	VideoID      string
	Title        string
	Description  string
	Channel      string
	DurationText string
}

// CaptionTrack is one entry from the player configuration's track list.
// Tracks are fetched per request and never persisted.
type CaptionTrack struct {
	LanguageCode string
	SourceURL    string
}

// PageReader isolates the fragile watch-page scraping behind a narrow
// interface. Upstream markup changes, and tests that need a broken page,
// only ever touch an implementation of this; the retrieval state machine
// never parses markup itself.
type PageReader interface {
	// FetchMeta retrieves the watch page and extracts title, description,
	// channel, and duration. Retrieval treats its failure as fatal because
	// the AI fallback tier cannot run without metadata.
	FetchMeta(ctx context.Context, videoID string) (*PageMeta, error)

	// FetchTracks re-retrieves the page and lists the caption tracks from
	// the embedded player configuration.
	FetchTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)

	// FetchCaptions downloads one track's timed-text payload and returns
	// the decoded, joined transcript.
	FetchCaptions(ctx context.Context, track CaptionTrack) (string, error)
}
