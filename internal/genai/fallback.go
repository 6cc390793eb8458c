package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mintnote/extract/internal/errdefs"
	"github.com/mintnote/extract/internal/usage"
)

// VideoContext carries the metadata the fallback prompt is built from. All
// fields are best-effort; empty ones are simply omitted from the prompt.
type VideoContext struct {
	Title        string
	Channel      string
	DurationText string
	Description  string
}

// FallbackSummarizer produces a stand-in for a video transcript when no
// caption track could be retrieved. It is the terminal tier: when it fails
// there is nothing further to try.
type FallbackSummarizer struct {
	Gen TextGenerator
	// Model is recorded on usage events for cost attribution.
	Model string
	Usage usage.Sink
}

// Summarize asks the model to describe the video from its metadata alone.
// It returns errdefs.ErrMissingCredential when no generator is wired (the
// host ran without an API key) and errdefs.ErrFallbackUnavailable when the
// call fails or yields no text.
func (s *FallbackSummarizer) Summarize(ctx context.Context, vc VideoContext) (string, error) {
	if s.Gen == nil {
		return "", fmt.Errorf("fallback summarizer: %w", errdefs.ErrMissingCredential)
	}
	gen, err := s.Gen.Generate(ctx, buildFallbackPrompt(vc))
	if err != nil {
		return "", fmt.Errorf("fallback summary: %w: %w", errdefs.ErrFallbackUnavailable, err)
	}
	if s.Usage != nil {
		s.Usage.Record(ctx, usage.Event{
			Action:       "video_fallback_summary",
			Model:        s.Model,
			InputTokens:  gen.InputTokens,
			OutputTokens: gen.OutputTokens,
		})
	}
	log.Debug().Str("title", vc.Title).Int("chars", len(gen.Text)).Msg("fallback summary generated")
	return gen.Text, nil
}

func buildFallbackPrompt(vc VideoContext) string {
	var sb strings.Builder
	sb.WriteString("The caption track for a video could not be retrieved. Using only the metadata below, write a concise summary of what the video most likely covers.")
	sb.WriteString("\n- Stick to what the metadata supports; do not invent names, numbers, or claims.")
	sb.WriteString("\n- Write flowing prose, no headings or bullet lists.")
	sb.WriteString("\n\nMetadata:")
	if v := strings.TrimSpace(vc.Title); v != "" {
		sb.WriteString("\nTitle: ")
		sb.WriteString(v)
	}
	if v := strings.TrimSpace(vc.Channel); v != "" {
		sb.WriteString("\nChannel: ")
		sb.WriteString(v)
	}
	if v := strings.TrimSpace(vc.DurationText); v != "" {
		sb.WriteString("\nDuration: ")
		sb.WriteString(v)
	}
	if v := strings.TrimSpace(vc.Description); v != "" {
		sb.WriteString("\nDescription: ")
		sb.WriteString(v)
	}
	return sb.String()
}
