package extract

import (
	"path"
	"regexp"
	"strings"

	"github.com/mintnote/extract/internal/video"
)

// extensionKinds maps trailing file extensions to document kinds for
// inputs that reference a file by name.
var extensionKinds = map[string]InputKind{
	".pdf":   KindDocumentPDF,
	".xlsx":  KindDocumentSpreadsheet,
	".xls":   KindDocumentSpreadsheet,
	".csv":   KindDocumentSpreadsheet,
	".doc":   KindDocumentWord,
	".docx":  KindDocumentWord,
	".ppt":   KindDocumentWord,
	".pptx":  KindDocumentWord,
	".key":   KindDocumentWord,
	".pages": KindDocumentWord,
	".png":   KindDocumentImage,
	".jpg":   KindDocumentImage,
	".jpeg":  KindDocumentImage,
	".gif":   KindDocumentImage,
	".webp":  KindDocumentImage,
	".svg":   KindDocumentImage,
}

var webURLRe = regexp.MustCompile(`(?i)^https?://\S+$`)

// Classify decides what an input string is without any I/O. It never
// fails: anything that matches no video, data-URI, extension or web
// pattern is plain text. Priority order matters: video URL shapes win over
// the generic web pattern.
func Classify(input string) DetectionResult {
	trimmed := strings.TrimSpace(input)

	if video.MatchesURL(trimmed) {
		return DetectionResult{Kind: KindVideo, URL: trimmed}
	}
	if strings.HasPrefix(trimmed, "data:") {
		if kind, ok := kindFromMIME(dataURIMIME(trimmed)); ok {
			return DetectionResult{Kind: kind, RawContent: trimmed}
		}
	}
	if kind, ok := extensionKinds[strings.ToLower(path.Ext(trimmed))]; ok {
		return DetectionResult{Kind: kind, RawContent: trimmed}
	}
	if webURLRe.MatchString(trimmed) {
		return DetectionResult{Kind: KindWeb, URL: trimmed}
	}
	return DetectionResult{Kind: KindText, RawContent: input}
}

// dataURIMIME returns the lowercased MIME type of a data URI, or "" when
// the header is malformed.
func dataURIMIME(s string) string {
	rest := s[len("data:"):]
	end := strings.IndexAny(rest, ";,")
	if end < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(rest[:end]))
}

func kindFromMIME(mime string) (InputKind, bool) {
	switch {
	case mime == "application/pdf":
		return KindDocumentPDF, true
	case mime == "text/csv",
		mime == "application/vnd.ms-excel",
		strings.Contains(mime, "spreadsheetml"):
		return KindDocumentSpreadsheet, true
	case mime == "application/msword",
		mime == "application/vnd.ms-powerpoint",
		strings.Contains(mime, "wordprocessingml"),
		strings.Contains(mime, "presentationml"),
		strings.Contains(mime, "apple.pages"),
		strings.Contains(mime, "apple.keynote"):
		return KindDocumentWord, true
	case strings.HasPrefix(mime, "image/"):
		return KindDocumentImage, true
	}
	return KindUnknown, false
}
