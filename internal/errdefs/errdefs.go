// Package errdefs declares the sentinel errors shared across the extraction
// pipeline. Components wrap these with fmt.Errorf("...: %w", ...) so callers
// can branch on the failure class with errors.Is while still seeing the
// stage-specific detail in the message.
package errdefs

import "errors"

// ErrInvalidReference indicates the input names a resource in a form the
// pipeline cannot act on, such as a video URL with no recognizable video ID.
var ErrInvalidReference = errors.New("invalid reference")

// ErrFetchFailed indicates a network retrieval failed or returned a
// non-success status.
var ErrFetchFailed = errors.New("fetch failed")

// ErrParseFailed indicates fetched or supplied content could not be decoded
// into the expected structure.
var ErrParseFailed = errors.New("parse failed")

// ErrInsufficientContent indicates extraction succeeded mechanically but
// yielded too little text to be useful.
var ErrInsufficientContent = errors.New("insufficient content")

// ErrFallbackUnavailable indicates the AI fallback path was reached but could
// not produce a result. It is terminal: no further tier exists.
var ErrFallbackUnavailable = errors.New("fallback unavailable")

// ErrUnsupportedFormat indicates the input kind or file format is recognized
// but has no extraction path.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrMissingCredential indicates an AI-backed stage was invoked without the
// credential it needs. Kept distinct from ErrFallbackUnavailable so operators
// can tell configuration gaps from upstream outages.
var ErrMissingCredential = errors.New("missing credential")

// Expected reports whether err belongs to one of the failure classes the
// tiered retriever treats as an expected miss, meaning the next tier should
// be tried. Anything else is a programming or environmental fault and must
// surface to the caller unmasked.
func Expected(err error) bool {
	return errors.Is(err, ErrFetchFailed) ||
		errors.Is(err, ErrParseFailed) ||
		errors.Is(err, ErrInsufficientContent)
}
