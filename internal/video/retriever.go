package video

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mintnote/extract/internal/errdefs"
	"github.com/mintnote/extract/internal/genai"
)

// ErrNoCaptions indicates the player configuration listed no caption
// tracks. An expected miss: the video simply ships no transcript.
var ErrNoCaptions = errors.New("no caption tracks")

// Summarizer is the terminal tier's collaborator.
type Summarizer interface {
	Summarize(ctx context.Context, vc genai.VideoContext) (string, error)
}

// Transcript is the retrieval outcome: the transcript (or fallback summary)
// plus the page metadata it was built from.
type Transcript struct {
	VideoID string
	Content string
	Meta    *PageMeta
	// FromFallback is true when the content is an AI summary rather than a
	// caption transcript.
	FromFallback bool
}

// Tier is one named rung of the escalation ladder. Run returns content on
// success; an expected failure hands control to the next tier, anything
// else aborts retrieval so genuine bugs are not masked as missing captions.
type Tier struct {
	Name string
	Run  func(ctx context.Context, meta *PageMeta) (string, error)
}

// Retriever drives the tier list for one video. Page must be set. Fallback
// may be nil when no AI credential is configured; the terminal tier then
// fails with ErrMissingCredential.
type Retriever struct {
	Page     PageReader
	Fallback Summarizer
	// Preferred lists caption languages in preference order, typically the
	// interface language followed by "en".
	Preferred []string
}

// Retrieve runs the state machine for one video reference. The identifier
// and the metadata fetch are load-bearing: either failing ends retrieval
// immediately, because without metadata even the fallback tier has nothing
// to work from. Everything after that escalates tier by tier.
func (r *Retriever) Retrieve(ctx context.Context, input string) (*Transcript, error) {
	id, err := ParseID(input)
	if err != nil {
		return nil, err
	}
	meta, err := r.Page.FetchMeta(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("video %s metadata: %w", id, err)
	}

	tiers := []Tier{
		{Name: "captions", Run: r.captionsTier},
		{Name: "ai-summary", Run: r.fallbackTier},
	}
	var lastErr error
	for i, tier := range tiers {
		content, err := tier.Run(ctx, meta)
		if err == nil && strings.TrimSpace(content) == "" {
			err = fmt.Errorf("tier produced no content: %w", errdefs.ErrInsufficientContent)
		}
		if err == nil {
			return &Transcript{VideoID: id, Content: content, Meta: meta, FromFallback: i > 0}, nil
		}
		if !expectedTierFailure(err) {
			return nil, fmt.Errorf("video %s tier %s: %w", id, tier.Name, err)
		}
		log.Warn().Err(err).Str("video_id", id).Str("tier", tier.Name).Msg("tier failed, escalating")
		lastErr = err
	}
	return nil, fmt.Errorf("video %s: all tiers exhausted: %w", id, lastErr)
}

func (r *Retriever) captionsTier(ctx context.Context, meta *PageMeta) (string, error) {
	tracks, err := r.Page.FetchTracks(ctx, meta.VideoID)
	if err != nil {
		return "", err
	}
	track, ok := SelectTrack(tracks, r.Preferred)
	if !ok {
		return "", ErrNoCaptions
	}
	return r.Page.FetchCaptions(ctx, track)
}

func (r *Retriever) fallbackTier(ctx context.Context, meta *PageMeta) (string, error) {
	if r.Fallback == nil {
		return "", fmt.Errorf("no summarizer configured: %w", errdefs.ErrMissingCredential)
	}
	return r.Fallback.Summarize(ctx, genai.VideoContext{
		Title:        meta.Title,
		Channel:      meta.Channel,
		DurationText: meta.DurationText,
		Description:  meta.Description,
	})
}

// expectedTierFailure separates misses worth escalating past from faults
// that must surface. A nil-map panic in parsing must never read as "this
// video has no captions".
func expectedTierFailure(err error) bool {
	return errdefs.Expected(err) || errors.Is(err, ErrNoCaptions)
}
