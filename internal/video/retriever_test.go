package video

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mintnote/extract/internal/errdefs"
	"github.com/mintnote/extract/internal/genai"
)

// fakeReader scripts each PageReader call so tests can break any stage of
// the state machine independently.
type fakeReader struct {
	meta      *PageMeta
	metaErr   error
	tracks    []CaptionTrack
	tracksErr error
	captions  string
	capErr    error

	tracksCalls int
}

func (f *fakeReader) FetchMeta(_ context.Context, videoID string) (*PageMeta, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	if f.meta != nil {
		return f.meta, nil
	}
	return &PageMeta{VideoID: videoID, Title: "A Title"}, nil
}

func (f *fakeReader) FetchTracks(context.Context, string) ([]CaptionTrack, error) {
	f.tracksCalls++
	return f.tracks, f.tracksErr
}

func (f *fakeReader) FetchCaptions(context.Context, CaptionTrack) (string, error) {
	return f.captions, f.capErr
}

type fakeSummarizer struct {
	out   string
	err   error
	calls int
	last  genai.VideoContext
}

func (f *fakeSummarizer) Summarize(_ context.Context, vc genai.VideoContext) (string, error) {
	f.calls++
	f.last = vc
	return f.out, f.err
}

func TestRetrieve_CaptionsSucceed(t *testing.T) {
	reader := &fakeReader{
		tracks:   []CaptionTrack{{LanguageCode: "en", SourceURL: "http://x/t"}},
		captions: "hello world transcript",
	}
	sum := &fakeSummarizer{out: "should not be used"}
	r := &Retriever{Page: reader, Fallback: sum}

	tr, err := r.Retrieve(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("retrieve error: %v", err)
	}
	if tr.Content != "hello world transcript" {
		t.Fatalf("unexpected content: %q", tr.Content)
	}
	if tr.FromFallback {
		t.Fatalf("captions tier succeeded, result must not be marked fallback")
	}
	if sum.calls != 0 {
		t.Fatalf("summarizer must not run when captions succeed, ran %d times", sum.calls)
	}
}

func TestRetrieve_InvalidReferenceIsFatal(t *testing.T) {
	r := &Retriever{Page: &fakeReader{}, Fallback: &fakeSummarizer{out: "x"}}
	_, err := r.Retrieve(context.Background(), "https://example.com/not-a-video")
	if !errors.Is(err, errdefs.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestRetrieve_MetadataFailureIsHard(t *testing.T) {
	reader := &fakeReader{metaErr: fmt.Errorf("boom: %w", errdefs.ErrFetchFailed)}
	sum := &fakeSummarizer{out: "x"}
	r := &Retriever{Page: reader, Fallback: sum}

	_, err := r.Retrieve(context.Background(), "https://youtu.be/abc123")
	if !errors.Is(err, errdefs.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if sum.calls != 0 {
		t.Fatalf("fallback must not run without metadata")
	}
}

func TestRetrieve_PageFetchFailureFallsBack(t *testing.T) {
	reader := &fakeReader{
		meta: &PageMeta{
			VideoID:      "abc123",
			Title:        "Intro to Tides",
			Channel:      "OceanEdu",
			DurationText: "5:30",
		},
		tracksErr: fmt.Errorf("page refetch: %w", errdefs.ErrFetchFailed),
	}
	sum := &fakeSummarizer{out: "summary built from metadata"}
	r := &Retriever{Page: reader, Fallback: sum}

	tr, err := r.Retrieve(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("retrieve error: %v", err)
	}
	if tr.Content != "summary built from metadata" {
		t.Fatalf("expected fallback content, got %q", tr.Content)
	}
	if !tr.FromFallback {
		t.Fatalf("result must be marked as fallback")
	}
	if sum.calls != 1 {
		t.Fatalf("expected exactly one summarizer call, got %d", sum.calls)
	}
	if sum.last.Title != "Intro to Tides" || sum.last.Channel != "OceanEdu" || sum.last.DurationText != "5:30" {
		t.Fatalf("fallback must receive previously fetched metadata, got %+v", sum.last)
	}
}

func TestRetrieve_EmptyTrackListFallsBack(t *testing.T) {
	reader := &fakeReader{tracks: nil}
	sum := &fakeSummarizer{out: "summary"}
	r := &Retriever{Page: reader, Fallback: sum}

	tr, err := r.Retrieve(context.Background(), "youtu.be/abc123")
	if err != nil {
		t.Fatalf("retrieve error: %v", err)
	}
	if tr.Content != "summary" || !tr.FromFallback {
		t.Fatalf("expected fallback result, got %+v", tr)
	}
}

func TestRetrieve_EmptyCaptionPayloadFallsBack(t *testing.T) {
	reader := &fakeReader{
		tracks: []CaptionTrack{{LanguageCode: "en", SourceURL: "http://x/t"}},
		capErr: fmt.Errorf("caption payload has no text: %w", errdefs.ErrInsufficientContent),
	}
	sum := &fakeSummarizer{out: "summary"}
	r := &Retriever{Page: reader, Fallback: sum}

	tr, err := r.Retrieve(context.Background(), "youtu.be/abc123")
	if err != nil {
		t.Fatalf("retrieve error: %v", err)
	}
	if !tr.FromFallback {
		t.Fatalf("expected fallback result")
	}
}

func TestRetrieve_UnexpectedErrorSurfaces(t *testing.T) {
	reader := &fakeReader{tracksErr: errors.New("index out of range")}
	sum := &fakeSummarizer{out: "summary"}
	r := &Retriever{Page: reader, Fallback: sum}

	_, err := r.Retrieve(context.Background(), "youtu.be/abc123")
	if err == nil {
		t.Fatalf("expected unexpected error to surface")
	}
	if sum.calls != 0 {
		t.Fatalf("a programming fault must not be masked by the fallback tier")
	}
}

func TestRetrieve_FallbackFailureIsTerminal(t *testing.T) {
	reader := &fakeReader{tracks: nil}
	sum := &fakeSummarizer{err: fmt.Errorf("x: %w", errdefs.ErrFallbackUnavailable)}
	r := &Retriever{Page: reader, Fallback: sum}

	_, err := r.Retrieve(context.Background(), "youtu.be/abc123")
	if !errors.Is(err, errdefs.ErrFallbackUnavailable) {
		t.Fatalf("expected ErrFallbackUnavailable, got %v", err)
	}
}

func TestRetrieve_NoSummarizerMeansMissingCredential(t *testing.T) {
	reader := &fakeReader{tracks: nil}
	r := &Retriever{Page: reader}

	_, err := r.Retrieve(context.Background(), "youtu.be/abc123")
	if !errors.Is(err, errdefs.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
