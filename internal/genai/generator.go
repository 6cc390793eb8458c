package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Generation is one completed model call: the text plus the token counts
// the backend reported for it.
type Generation struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// TextGenerator produces prose from a prompt. Implemented by Generator and
// by test fakes.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// VisionGenerator produces prose from a prompt plus one image.
type VisionGenerator interface {
	GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (Generation, error)
}

// ErrEmptyCompletion indicates the backend answered but produced no usable text.
var ErrEmptyCompletion = errors.New("empty completion")

// Generator calls a chat model through Client. A single transient failure is
// retried once after a short pause; the context deadline still bounds the
// whole call.
type Generator struct {
	Client Client
	Model  string
	// MaxTokens caps the completion length when > 0.
	MaxTokens int

	// sleep is replaceable in tests to avoid real delays.
	sleep func(time.Duration)
}

func (g *Generator) pause(d time.Duration) {
	if g.sleep != nil {
		g.sleep(d)
		return
	}
	time.Sleep(d)
}

// Generate sends a plain text prompt and returns the completion with usage.
func (g *Generator) Generate(ctx context.Context, prompt string) (Generation, error) {
	if g.Client == nil || strings.TrimSpace(g.Model) == "" {
		return Generation{}, errors.New("generator not configured")
	}
	req := openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		N:           1,
	}
	if g.MaxTokens > 0 {
		req.MaxTokens = g.MaxTokens
	}
	return g.complete(ctx, req)
}

// GenerateVision sends a prompt plus one inline image. The image travels as
// a data URL so no intermediate upload or hosting is needed.
func (g *Generator) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (Generation, error) {
	if g.Client == nil || strings.TrimSpace(g.Model) == "" {
		return Generation{}, errors.New("generator not configured")
	}
	if len(image) == 0 || strings.TrimSpace(mimeType) == "" {
		return Generation{}, errors.New("image bytes and mime type required")
	}
	req := openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL(mimeType, image),
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		Temperature: 0.1,
		N:           1,
	}
	if g.MaxTokens > 0 {
		req.MaxTokens = g.MaxTokens
	}
	return g.complete(ctx, req)
}

func (g *Generator) complete(ctx context.Context, req openai.ChatCompletionRequest) (Generation, error) {
	resp, err := g.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		// single retry after short sleep; context deadline still bounds this
		g.pause(100 * time.Millisecond)
		resp, err = g.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return Generation{}, fmt.Errorf("chat completion (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return Generation{}, ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Generation{}, ErrEmptyCompletion
	}
	return Generation{
		Text:         text,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func dataURL(mime string, b []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(b))
}
