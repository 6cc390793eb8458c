package docparse

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/mintnote/extract/internal/errdefs"
)

// OfficeWord parses OOXML word-processor and presentation files directly
// from their ZIP containers, no external converter involved. Legacy binary
// formats and Apple iWork bundles are rejected with guidance; hosts that
// need them can plug a richer WordParser.
type OfficeWord struct{}

func (OfficeWord) Parse(_ context.Context, data []byte, fileName string) (string, error) {
	switch ext := strings.ToLower(path.Ext(fileName)); ext {
	case ".docx":
		return parseDocx(data)
	case ".pptx":
		return parsePptx(data)
	case ".doc", ".ppt", ".pages", ".key":
		return "", fmt.Errorf("%s files are not readable directly, export as docx or pptx first: %w", ext, errdefs.ErrUnsupportedFormat)
	default:
		// Unlabeled upload: OOXML containers are ZIPs, try both layouts.
		if bytes.HasPrefix(data, []byte("PK")) {
			if text, err := parseDocx(data); err == nil {
				return text, nil
			}
			return parsePptx(data)
		}
		return "", fmt.Errorf("unrecognized word-processor file %q: %w", fileName, errdefs.ErrUnsupportedFormat)
	}
}

// parseDocx reads word/document.xml and joins paragraph texts with blank
// lines. Runs inside one paragraph concatenate, which matches how the
// format splits text mid-sentence.
func parseDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w: %v", errdefs.ErrParseFailed, err)
	}
	raw, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return "", fmt.Errorf("read document part: %w: %v", errdefs.ErrParseFailed, err)
	}

	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte(' ')
				}
			case "br":
				if inParagraph {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					inParagraph = false
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
			}
		}
	}

	if len(paragraphs) == 0 {
		return "", fmt.Errorf("document has no paragraph text: %w", errdefs.ErrInsufficientContent)
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// parsePptx walks ppt/slides/slideN.xml in slide order and collects the
// text runs of each slide.
func parsePptx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w: %v", errdefs.ErrParseFailed, err)
	}

	type slideFile struct {
		nr int
		f  *zip.File
	}
	var slides []slideFile
	for _, f := range zr.File {
		name := f.Name
		if !strings.HasPrefix(name, "ppt/slides/slide") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		nrStr := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
		nr, convErr := strconv.Atoi(nrStr)
		if convErr != nil {
			continue
		}
		slides = append(slides, slideFile{nr: nr, f: f})
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("presentation has no slides: %w", errdefs.ErrParseFailed)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].nr < slides[j].nr })

	var out []string
	for _, s := range slides {
		rc, openErr := s.f.Open()
		if openErr != nil {
			continue
		}
		text := slideText(rc)
		_ = rc.Close()
		if text != "" {
			out = append(out, text)
		}
	}
	if len(out) == 0 {
		return "", fmt.Errorf("presentation has no text: %w", errdefs.ErrInsufficientContent)
	}
	return strings.Join(out, "\n\n"), nil
}

// slideText collects DrawingML text runs: each <a:p> paragraph becomes one
// line.
func slideText(r io.Reader) string {
	decoder := xml.NewDecoder(r)
	var lines []string
	var current strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
				current.WriteByte(' ')
			case "p":
				if line := strings.TrimSpace(collapseRuns(current.String())); line != "" {
					lines = append(lines, line)
				}
				current.Reset()
			}
		}
	}
	if line := strings.TrimSpace(collapseRuns(current.String())); line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func collapseRuns(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
