package extract

import "github.com/mintnote/extract/internal/errdefs"

// The pipeline's failure classes. Match with errors.Is; wrapped messages
// carry the failing stage for logs.
var (
	// ErrInvalidReference means no usable identifier or payload could be
	// taken from the input (e.g. a video URL without a video id, or a bare
	// file name where bytes were needed).
	ErrInvalidReference = errdefs.ErrInvalidReference

	// ErrFetchFailed means an outbound HTTP call errored or returned a
	// non-success status.
	ErrFetchFailed = errdefs.ErrFetchFailed

	// ErrParseFailed means fetched data was missing the expected structure.
	ErrParseFailed = errdefs.ErrParseFailed

	// ErrInsufficientContent means extraction found less text than the
	// minimum usable amount; suggest the user paste the text manually.
	ErrInsufficientContent = errdefs.ErrInsufficientContent

	// ErrFallbackUnavailable means the terminal AI fallback itself failed;
	// no further tier exists.
	ErrFallbackUnavailable = errdefs.ErrFallbackUnavailable

	// ErrUnsupportedFormat means the input's kind has no implemented
	// parser.
	ErrUnsupportedFormat = errdefs.ErrUnsupportedFormat

	// ErrMissingCredential means an AI-backed step ran without an API key
	// configured. Distinct from ErrFallbackUnavailable so operators can
	// tell configuration problems from service problems.
	ErrMissingCredential = errdefs.ErrMissingCredential
)
