// Package docparse extracts plain text from uploaded document files. One
// Extractor fronts all formats through a dispatch table keyed by document
// kind; each branch delegates to a format parser and normalizes the result
// the same way (title from the file name when the parser has none, word
// count by whitespace split).
package docparse

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/mintnote/extract/internal/errdefs"
)

// Kind names a parser family, not a file extension: several extensions map
// into one kind.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindSpreadsheet Kind = "spreadsheet"
	KindWord        Kind = "word"
	KindImage       Kind = "image"
)

// ParsedDocument is what a page-oriented parser returns. Title is optional;
// PageCount is zero when the format has no page notion.
type ParsedDocument struct {
	Text      string
	Title     string
	PageCount int
}

// SheetStat reports one worksheet's size.
type SheetStat struct {
	Name string
	Rows int
}

// ParsedSheet is what the spreadsheet parser returns: the text plus
// per-sheet row counts.
type ParsedSheet struct {
	Text   string
	Sheets []SheetStat
}

// PDFParser turns PDF bytes into text and a page count.
type PDFParser interface {
	Parse(ctx context.Context, data []byte) (ParsedDocument, error)
}

// SpreadsheetParser turns workbook or CSV bytes into text and per-sheet
// row counts.
type SpreadsheetParser interface {
	Parse(ctx context.Context, data []byte, fileName string) (ParsedSheet, error)
}

// WordParser turns word-processor or presentation bytes into plain text.
type WordParser interface {
	Parse(ctx context.Context, data []byte, fileName string) (string, error)
}

// ImageReader turns an image into text, typically by a vision-capable
// model. Satisfied by genai.ImageReader.
type ImageReader interface {
	Read(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Extraction is the normalized outcome for one document.
type Extraction struct {
	Text      string
	Title     string
	PageCount int
	WordCount int
	// Sheets is populated for spreadsheets only.
	Sheets []SheetStat
}

type branch func(ctx context.Context, data []byte, fileName string) (Extraction, error)

// Extractor dispatches document bytes to the parser for their kind. The
// zero value is not usable; construct with NewExtractor.
type Extractor struct {
	pdf   PDFParser
	sheet SpreadsheetParser
	word  WordParser
	image ImageReader

	dispatch map[Kind]branch
}

// NewExtractor wires the four parser collaborators into a dispatch table.
// Any parser may be nil; its kind then fails with a clear error instead of
// a nil dereference.
func NewExtractor(pdf PDFParser, sheet SpreadsheetParser, word WordParser, image ImageReader) *Extractor {
	e := &Extractor{pdf: pdf, sheet: sheet, word: word, image: image}
	e.dispatch = map[Kind]branch{
		KindPDF:         e.pdfBranch,
		KindSpreadsheet: e.sheetBranch,
		KindWord:        e.wordBranch,
		KindImage:       e.imageBranch,
	}
	return e
}

// Extract parses data according to kind and normalizes the outcome. The
// returned text is never empty on success.
func (e *Extractor) Extract(ctx context.Context, data []byte, fileName string, kind Kind) (Extraction, error) {
	run, ok := e.dispatch[kind]
	if !ok {
		return Extraction{}, fmt.Errorf("no parser for document kind %q: %w", kind, errdefs.ErrUnsupportedFormat)
	}
	if len(data) == 0 {
		return Extraction{}, fmt.Errorf("empty file %q: %w", fileName, errdefs.ErrInsufficientContent)
	}
	ex, err := run(ctx, data, fileName)
	if err != nil {
		return Extraction{}, err
	}
	ex.Text = strings.TrimSpace(ex.Text)
	if ex.Text == "" {
		return Extraction{}, fmt.Errorf("document %q yields no text: %w", fileName, errdefs.ErrInsufficientContent)
	}
	if ex.Title == "" {
		ex.Title = TitleFromFileName(fileName)
	}
	ex.WordCount = len(strings.Fields(ex.Text))
	return ex, nil
}

func (e *Extractor) pdfBranch(ctx context.Context, data []byte, _ string) (Extraction, error) {
	if e.pdf == nil {
		return Extraction{}, fmt.Errorf("no pdf parser configured: %w", errdefs.ErrUnsupportedFormat)
	}
	doc, err := e.pdf.Parse(ctx, data)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Text: doc.Text, Title: doc.Title, PageCount: doc.PageCount}, nil
}

func (e *Extractor) sheetBranch(ctx context.Context, data []byte, fileName string) (Extraction, error) {
	if e.sheet == nil {
		return Extraction{}, fmt.Errorf("no spreadsheet parser configured: %w", errdefs.ErrUnsupportedFormat)
	}
	sh, err := e.sheet.Parse(ctx, data, fileName)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Text: sh.Text, PageCount: len(sh.Sheets), Sheets: sh.Sheets}, nil
}

func (e *Extractor) wordBranch(ctx context.Context, data []byte, fileName string) (Extraction, error) {
	if e.word == nil {
		return Extraction{}, fmt.Errorf("no word-processor parser configured: %w", errdefs.ErrUnsupportedFormat)
	}
	text, err := e.word.Parse(ctx, data, fileName)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Text: text}, nil
}

func (e *Extractor) imageBranch(ctx context.Context, data []byte, fileName string) (Extraction, error) {
	if e.image == nil {
		return Extraction{}, fmt.Errorf("no vision reader configured: %w", errdefs.ErrMissingCredential)
	}
	text, err := e.image.Read(ctx, data, imageMIME(data, fileName))
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Text: text}, nil
}

// TitleFromFileName strips directories and the extension: "a/b/Report.pdf"
// becomes "Report".
func TitleFromFileName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

var extMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// imageMIME prefers the extension and falls back to content sniffing, so a
// misnamed upload still reaches the vision model with a plausible type.
func imageMIME(data []byte, fileName string) string {
	if mime, ok := extMIME[strings.ToLower(path.Ext(fileName))]; ok {
		return mime
	}
	return http.DetectContentType(data)
}
