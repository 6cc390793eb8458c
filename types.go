// Package extract turns arbitrary user input, whether pasted text, a web or
// video URL, or an uploaded file, into one normalized plain-text document
// with descriptive metadata, ready for downstream AI transformation.
//
// Classify decides what an input is without any I/O; Service routes it to
// the matching retriever. Content in a Result is always plain text with
// paragraph breaks preserved as blank lines, and is never empty on success.
// Nothing is cached or shared between calls.
package extract

// InputKind labels what an input turned out to be. Assigned once by
// classification and immutable thereafter.
type InputKind string

const (
	KindText                InputKind = "text"
	KindWeb                 InputKind = "web"
	KindVideo               InputKind = "video"
	KindDocumentPDF         InputKind = "document_pdf"
	KindDocumentSpreadsheet InputKind = "document_spreadsheet"
	KindDocumentWord        InputKind = "document_word"
	KindDocumentImage       InputKind = "document_image"
	KindUnknown             InputKind = "unknown"
)

// DocumentKind names a file format family for ExtractFile.
type DocumentKind string

const (
	DocPDF         DocumentKind = "pdf"
	DocSpreadsheet DocumentKind = "spreadsheet"
	DocWord        DocumentKind = "word"
	DocImage       DocumentKind = "image"
)

var documentKinds = map[InputKind]DocumentKind{
	KindDocumentPDF:         DocPDF,
	KindDocumentSpreadsheet: DocSpreadsheet,
	KindDocumentWord:        DocWord,
	KindDocumentImage:       DocImage,
}

// AsDocument maps a classified document input kind to its DocumentKind.
func (k InputKind) AsDocument() (DocumentKind, bool) {
	dk, ok := documentKinds[k]
	return dk, ok
}

// DetectionResult is what Classify returns. URL is set for web and video
// inputs, RawContent for everything carried by value (text, data URIs, file
// references).
type DetectionResult struct {
	Kind       InputKind `json:"kind"`
	URL        string    `json:"url,omitempty"`
	RawContent string    `json:"rawContent,omitempty"`
}

// Metadata describes an extraction. Fields populate based on what the
// source can supply; an absent field is meaningful, not an error.
type Metadata struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	DurationText string `json:"durationText,omitempty"`
	PageCount    int    `json:"pageCount,omitempty"`
	WordCount    int    `json:"wordCount"`
	Language     string `json:"language"`
}

// Result is the single normalized output of the pipeline.
type Result struct {
	Kind     InputKind `json:"kind"`
	Content  string    `json:"content"`
	Metadata Metadata  `json:"metadata"`
}

// SheetInfo reports one worksheet's size in a spreadsheet extraction.
type SheetInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// FileExtraction is the outcome of ExtractFile. Sheets is populated for
// spreadsheets only.
type FileExtraction struct {
	Text     string      `json:"text"`
	Metadata Metadata    `json:"metadata"`
	Sheets   []SheetInfo `json:"sheets,omitempty"`
}
