package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mintnote/extract/internal/docparse"
	"github.com/mintnote/extract/internal/errdefs"
	"github.com/mintnote/extract/internal/fetch"
	"github.com/mintnote/extract/internal/genai"
	"github.com/mintnote/extract/internal/lang"
	"github.com/mintnote/extract/internal/usage"
	"github.com/mintnote/extract/internal/video"
	"github.com/mintnote/extract/internal/webarticle"
)

// UsageEvent reports token spend after any AI-backed step runs, for cost
// accounting by the host.
type UsageEvent struct {
	Action       string
	Model        string
	InputTokens  int
	OutputTokens int
}

// UsageRecorder receives usage events. Recording never fails an
// extraction; implementations should return quickly.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, ev UsageEvent)
}

// Service is the pipeline entry point. Construct with New; the zero value
// is not usable. A Service is safe for concurrent use, holding no
// per-request state.
type Service struct {
	cfg  Config
	sink usage.Sink

	httpClient *http.Client

	web    *webarticle.Extractor
	videos *video.Retriever
	docs   *docparse.Extractor
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient sets the transport used for page, caption and AI calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) { s.httpClient = hc }
}

// WithUsageRecorder routes AI usage events to r instead of the default
// structured log.
func WithUsageRecorder(r UsageRecorder) Option {
	return func(s *Service) { s.sink = recorderSink{r} }
}

type recorderSink struct{ r UsageRecorder }

func (a recorderSink) Record(ctx context.Context, ev usage.Event) {
	a.r.RecordUsage(ctx, UsageEvent{
		Action:       ev.Action,
		Model:        ev.Model,
		InputTokens:  ev.InputTokens,
		OutputTokens: ev.OutputTokens,
	})
}

// New wires the pipeline from cfg. Missing AI credentials are not an
// error here: AI-backed steps fail with ErrMissingCredential only when an
// extraction actually needs them.
func New(cfg Config, opts ...Option) (*Service, error) {
	applyConfigDefaults(&cfg)

	s := &Service{cfg: cfg, sink: usage.LogSink{}}
	for _, o := range opts {
		o(s)
	}

	newFetch := func(contentTypes []string) *fetch.Client {
		return &fetch.Client{
			HTTPClient:          s.httpClient,
			UserAgent:           cfg.UserAgent,
			AcceptLanguage:      cfg.AcceptLanguage,
			MaxAttempts:         cfg.FetchAttempts,
			PerRequestTimeout:   cfg.RequestTimeout,
			RedirectMaxHops:     cfg.RedirectMaxHops,
			MaxConcurrent:       cfg.MaxConcurrent,
			AllowedContentTypes: contentTypes,
		}
	}

	var textGen genai.TextGenerator
	var visionGen genai.VisionGenerator
	if cfg.AIAPIKey != "" {
		provider := genai.NewOpenAIProvider(cfg.AIAPIKey, cfg.AIBaseURL, s.httpClient)
		gen := &genai.Generator{Client: provider, Model: cfg.AIModel}
		textGen = gen
		visionGen = gen
	}

	s.web = &webarticle.Extractor{
		Client: newFetch([]string{"text/html", "application/xhtml+xml"}),
	}
	s.videos = &video.Retriever{
		Page:      &video.WatchPage{Client: newFetch(nil)},
		Fallback:  &genai.FallbackSummarizer{Gen: textGen, Model: cfg.AIModel, Usage: s.sink},
		Preferred: cfg.PreferredLanguages,
	}
	s.docs = docparse.NewExtractor(
		docparse.PDFCPU{},
		docparse.OfficeSheet{},
		docparse.OfficeWord{},
		&genai.ImageReader{Vision: visionGen, Model: cfg.AIModel, Usage: s.sink},
	)
	return s, nil
}

// Extract classifies input and runs the matching retriever.
func (s *Service) Extract(ctx context.Context, input string) (*Result, error) {
	return s.dispatch(ctx, Classify(input))
}

// ExtractAs skips classification and trusts the caller's kind, for hosts
// that already know what they hold. An empty kind behaves like Extract.
func (s *Service) ExtractAs(ctx context.Context, input string, kind InputKind) (*Result, error) {
	if kind == "" {
		return s.Extract(ctx, input)
	}
	det := DetectionResult{Kind: kind}
	switch kind {
	case KindWeb, KindVideo:
		det.URL = strings.TrimSpace(input)
	default:
		det.RawContent = input
	}
	return s.dispatch(ctx, det)
}

// ExtractFile parses uploaded bytes as the declared document kind.
func (s *Service) ExtractFile(ctx context.Context, data []byte, fileName string, kind DocumentKind) (*FileExtraction, error) {
	ex, err := s.docs.Extract(ctx, data, fileName, docparse.Kind(kind))
	if err != nil {
		return nil, err
	}
	out := &FileExtraction{
		Text: ex.Text,
		Metadata: Metadata{
			Title:     ex.Title,
			PageCount: ex.PageCount,
			WordCount: ex.WordCount,
		},
	}
	for _, st := range ex.Sheets {
		out.Sheets = append(out.Sheets, SheetInfo{Name: st.Name, Rows: st.Rows})
	}
	s.finish(&out.Metadata, out.Text)
	return out, nil
}

func (s *Service) dispatch(ctx context.Context, det DetectionResult) (*Result, error) {
	switch det.Kind {
	case KindText:
		return s.textResult(det.RawContent)
	case KindWeb:
		return s.webResult(ctx, det.URL)
	case KindVideo:
		return s.videoResult(ctx, det.URL)
	case KindDocumentPDF, KindDocumentSpreadsheet, KindDocumentWord, KindDocumentImage:
		return s.documentResult(ctx, det)
	default:
		return nil, fmt.Errorf("input kind %q has no extractor: %w", det.Kind, errdefs.ErrUnsupportedFormat)
	}
}

// textResult passes the input through unchanged: the text itself is the
// content. Empty input is a failure, never a zero-length success.
func (s *Service) textResult(raw string) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty input, paste some text to extract: %w", errdefs.ErrInsufficientContent)
	}
	res := &Result{Kind: KindText, Content: raw}
	s.finish(&res.Metadata, res.Content)
	return res, nil
}

func (s *Service) webResult(ctx context.Context, pageURL string) (*Result, error) {
	a, err := s.web.Extract(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Kind:     KindWeb,
		Content:  a.Content,
		Metadata: Metadata{Title: a.Title, Author: a.Author},
	}
	s.finish(&res.Metadata, res.Content)
	return res, nil
}

func (s *Service) videoResult(ctx context.Context, videoURL string) (*Result, error) {
	tr, err := s.videos.Retrieve(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	res := &Result{Kind: KindVideo, Content: tr.Content}
	if tr.Meta != nil {
		res.Metadata.Title = tr.Meta.Title
		res.Metadata.DurationText = tr.Meta.DurationText
	}
	s.finish(&res.Metadata, res.Content)
	return res, nil
}

func (s *Service) documentResult(ctx context.Context, det DetectionResult) (*Result, error) {
	dk, ok := det.Kind.AsDocument()
	if !ok {
		return nil, fmt.Errorf("input kind %q has no document parser: %w", det.Kind, errdefs.ErrUnsupportedFormat)
	}
	data, fileName, err := documentPayload(det.RawContent)
	if err != nil {
		return nil, err
	}
	ex, err := s.docs.Extract(ctx, data, fileName, docparse.Kind(dk))
	if err != nil {
		return nil, err
	}
	res := &Result{
		Kind:    det.Kind,
		Content: ex.Text,
		Metadata: Metadata{
			Title:     ex.Title,
			PageCount: ex.PageCount,
			WordCount: ex.WordCount,
		},
	}
	s.finish(&res.Metadata, res.Content)
	return res, nil
}

// documentPayload turns a classified document input into parser bytes.
// Only data URIs carry bytes inline; a bare file reference needs the
// upload path.
func documentPayload(raw string) ([]byte, string, error) {
	if !strings.HasPrefix(raw, "data:") {
		return nil, "", fmt.Errorf("file reference %q carries no bytes, upload it through ExtractFile: %w", raw, errdefs.ErrInvalidReference)
	}
	comma := strings.IndexByte(raw, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("data uri has no payload: %w", errdefs.ErrInvalidReference)
	}
	header, payload := raw[:comma], raw[comma+1:]
	if strings.Contains(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data uri: %w: %v", errdefs.ErrInvalidReference, err)
		}
		return data, "", nil
	}
	if unescaped, err := url.PathUnescape(payload); err == nil {
		return []byte(unescaped), "", nil
	}
	return []byte(payload), "", nil
}

// finish applies the uniform metadata every successful extraction gets.
func (s *Service) finish(md *Metadata, content string) {
	if md.WordCount == 0 {
		md.WordCount = len(strings.Fields(content))
	}
	if md.Language == "" {
		md.Language = lang.Detect(content, s.cfg.DefaultLanguage)
	}
}
