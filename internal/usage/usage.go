// Package usage records AI token consumption. Every call that reaches a
// generative model emits exactly one Event, whether the call came from the
// transcript fallback, image reading, or any future AI-backed stage, so
// operators can account for spend per action.
package usage

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Event describes a single completed model call.
type Event struct {
	// Action names the pipeline stage that spent the tokens, for example
	// "video_fallback_summary" or "image_ocr".
	Action string
	// Model is the provider model identifier the call was made with.
	Model        string
	InputTokens  int
	OutputTokens int
}

// Sink receives usage events. Implementations must be safe for concurrent
// use; the pipeline may record from several requests at once.
type Sink interface {
	Record(ctx context.Context, ev Event)
}

// LogSink writes each event to the global logger. It is the default sink.
type LogSink struct{}

func (LogSink) Record(_ context.Context, ev Event) {
	log.Info().
		Str("action", ev.Action).
		Str("model", ev.Model).
		Int("input_tokens", ev.InputTokens).
		Int("output_tokens", ev.OutputTokens).
		Msg("ai usage")
}

// Discard drops every event.
type Discard struct{}

func (Discard) Record(context.Context, Event) {}

// Memory accumulates events in order. Useful for hosts that bill per
// request and for tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Record(_ context.Context, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Events returns a copy of everything recorded so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
