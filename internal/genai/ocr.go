package genai

import (
	"context"
	"fmt"

	"github.com/mintnote/extract/internal/errdefs"
	"github.com/mintnote/extract/internal/usage"
)

// ocrPrompt asks for a faithful transcription first and a structural
// description only where the image is data-bearing. Vision models otherwise
// tend to narrate instead of transcribe.
const ocrPrompt = "Transcribe all text visible in this image, preserving the reading order. " +
	"If the image is an infographic, chart, or diagram, also describe the key data points, " +
	"axes, and relationships it shows in short structured prose. " +
	"Output only the transcription and description, nothing else."

// ImageReader turns an image into text by way of a vision-capable model.
// This replaces a traditional OCR library: the model both transcribes and,
// for data-bearing images, explains.
type ImageReader struct {
	Vision VisionGenerator
	// Model is recorded on usage events for cost attribution.
	Model string
	Usage usage.Sink
}

// Read extracts the textual content of the image. It returns
// errdefs.ErrMissingCredential when no vision generator is wired and wraps
// other failures as errdefs.ErrParseFailed since the image could not be
// turned into text.
func (r *ImageReader) Read(ctx context.Context, image []byte, mimeType string) (string, error) {
	if r.Vision == nil {
		return "", fmt.Errorf("image reader: %w", errdefs.ErrMissingCredential)
	}
	gen, err := r.Vision.GenerateVision(ctx, ocrPrompt, image, mimeType)
	if err != nil {
		return "", fmt.Errorf("image ocr: %w: %w", errdefs.ErrParseFailed, err)
	}
	if r.Usage != nil {
		r.Usage.Record(ctx, usage.Event{
			Action:       "image_ocr",
			Model:        r.Model,
			InputTokens:  gen.InputTokens,
			OutputTokens: gen.OutputTokens,
		})
	}
	return gen.Text, nil
}
