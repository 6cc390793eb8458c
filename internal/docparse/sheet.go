package docparse

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/mintnote/extract/internal/errdefs"
)

// OfficeSheet parses XLSX workbooks from their ZIP containers and CSV
// files via encoding/csv. Legacy binary XLS is rejected with guidance.
type OfficeSheet struct{}

func (OfficeSheet) Parse(_ context.Context, data []byte, fileName string) (ParsedSheet, error) {
	switch ext := strings.ToLower(path.Ext(fileName)); ext {
	case ".csv":
		return parseCSV(data, fileName)
	case ".xlsx":
		return parseXLSX(data)
	case ".xls":
		return ParsedSheet{}, fmt.Errorf(".xls files are not readable directly, export as xlsx or csv first: %w", errdefs.ErrUnsupportedFormat)
	default:
		// Unlabeled upload: an XLSX is a ZIP, anything else gets the CSV
		// reader which also copes with plain tabular text.
		if bytes.HasPrefix(data, []byte("PK")) {
			return parseXLSX(data)
		}
		return parseCSV(data, fileName)
	}
}

func parseCSV(data []byte, fileName string) (ParsedSheet, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var lines []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ParsedSheet{}, fmt.Errorf("csv read: %w: %v", errdefs.ErrParseFailed, err)
		}
		if line := joinCells(record); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ParsedSheet{}, fmt.Errorf("no tabular data: %w", errdefs.ErrInsufficientContent)
	}

	name := TitleFromFileName(fileName)
	if name == "" {
		name = "Sheet1"
	}
	return ParsedSheet{
		Text:   strings.Join(lines, "\n"),
		Sheets: []SheetStat{{Name: name, Rows: len(lines)}},
	}, nil
}

func parseXLSX(data []byte) (ParsedSheet, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ParsedSheet{}, fmt.Errorf("open workbook: %w: %v", errdefs.ErrParseFailed, err)
	}

	shared := sharedStrings(zr)
	names := sheetNames(zr)
	files := worksheetFiles(zr)
	if len(files) == 0 {
		return ParsedSheet{}, fmt.Errorf("workbook has no worksheets: %w", errdefs.ErrParseFailed)
	}

	var blocks []string
	var stats []SheetStat
	for i, f := range files {
		rc, openErr := f.Open()
		if openErr != nil {
			continue
		}
		rows := worksheetRows(rc, shared)
		_ = rc.Close()

		name := fmt.Sprintf("Sheet%d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		stats = append(stats, SheetStat{Name: name, Rows: len(rows)})
		if len(rows) == 0 {
			continue
		}
		block := strings.Join(rows, "\n")
		if len(files) > 1 {
			block = name + "\n" + block
		}
		blocks = append(blocks, block)
	}
	if len(blocks) == 0 {
		return ParsedSheet{}, fmt.Errorf("workbook has no cell text: %w", errdefs.ErrInsufficientContent)
	}
	return ParsedSheet{Text: strings.Join(blocks, "\n\n"), Sheets: stats}, nil
}

// sharedStrings reads xl/sharedStrings.xml. Rich-text runs inside one
// <si> concatenate into a single entry. A workbook without the part just
// has no shared strings.
func sharedStrings(zr *zip.Reader) []string {
	raw, err := readZipFile(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var out []string
	var current strings.Builder
	inItem := false
	inText := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inItem = true
				current.Reset()
			case "t":
				inText = inItem
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				inItem = false
				out = append(out, current.String())
			}
		}
	}
	return out
}

// sheetNames returns the display names from xl/workbook.xml in workbook
// order.
func sheetNames(zr *zip.Reader) []string {
	raw, err := readZipFile(zr, "xl/workbook.xml")
	if err != nil {
		return nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var names []string
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "name" {
				names = append(names, attr.Value)
				break
			}
		}
	}
	return names
}

// worksheetFiles lists xl/worksheets/sheetN.xml ordered by N. Writers
// emit worksheet parts in workbook order, which keeps the pairing with
// sheetNames correct without chasing the relationship part.
func worksheetFiles(zr *zip.Reader) []*zip.File {
	type numbered struct {
		nr int
		f  *zip.File
	}
	var found []numbered
	for _, f := range zr.File {
		name := f.Name
		if !strings.HasPrefix(name, "xl/worksheets/sheet") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		nrStr := strings.TrimSuffix(strings.TrimPrefix(name, "xl/worksheets/sheet"), ".xml")
		nr, err := strconv.Atoi(nrStr)
		if err != nil {
			continue
		}
		found = append(found, numbered{nr: nr, f: f})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].nr < found[j].nr })

	out := make([]*zip.File, 0, len(found))
	for _, n := range found {
		out = append(out, n.f)
	}
	return out
}

// worksheetRows renders each non-empty row as one line of comma-joined
// cell values. Cell type "s" indexes into the shared string table,
// "inlineStr" carries its text inline, everything else keeps the raw
// <v> value.
func worksheetRows(r io.Reader, shared []string) []string {
	decoder := xml.NewDecoder(r)
	var rows []string
	var cells []string
	var value strings.Builder
	cellType := ""
	inValue := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				cells = cells[:0]
			case "c":
				cellType = ""
				value.Reset()
				for _, attr := range t.Attr {
					if attr.Name.Local == "t" {
						cellType = attr.Value
					}
				}
			case "v", "t":
				inValue = true
			}
		case xml.CharData:
			if inValue {
				value.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "c":
				cells = append(cells, resolveCell(cellType, value.String(), shared))
			case "row":
				if line := joinCells(cells); line != "" {
					rows = append(rows, line)
				}
			}
		}
	}
	return rows
}

func resolveCell(cellType, raw string, shared []string) string {
	if cellType != "s" {
		return raw
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 || idx >= len(shared) {
		return ""
	}
	return shared[idx]
}

// joinCells drops empty cells and joins the rest with commas, which reads
// better downstream than preserving column gaps.
func joinCells(cells []string) string {
	kept := make([]string, 0, len(cells))
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, ", ")
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", name)
}
