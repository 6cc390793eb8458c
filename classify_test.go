package extract

import "testing"

func TestClassify_VideoShapesWinOverWeb(t *testing.T) {
	inputs := []string{
		"https://www.youtube.com/watch?v=abc123",
		"https://youtu.be/dQw4w9WgXcQ",
		"http://youtube.com/embed/dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ",
		"youtu.be/dQw4w9WgXcQ",
	}
	for _, in := range inputs {
		det := Classify(in)
		if det.Kind != KindVideo {
			t.Errorf("Classify(%q).Kind = %q, want video", in, det.Kind)
		}
		if det.URL == "" {
			t.Errorf("Classify(%q) left URL empty", in)
		}
	}
}

func TestClassify_DataURIs(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  InputKind
	}{
		{"pdf", "data:application/pdf;base64,JVBERi0xLjQ=", KindDocumentPDF},
		{"png", "data:image/png;base64,iVBORw0KGgo=", KindDocumentImage},
		{"csv plain", "data:text/csv,a%2Cb%0Ac%2Cd", KindDocumentSpreadsheet},
		{"xlsx", "data:application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;base64,UEsDBA==", KindDocumentSpreadsheet},
		{"docx", "data:application/vnd.openxmlformats-officedocument.wordprocessingml.document;base64,UEsDBA==", KindDocumentWord},
		{"pptx", "data:application/vnd.openxmlformats-officedocument.presentationml.presentation;base64,UEsDBA==", KindDocumentWord},
		{"keynote", "data:application/vnd.apple.keynote;base64,UEsDBA==", KindDocumentWord},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			det := Classify(tc.input)
			if det.Kind != tc.want {
				t.Fatalf("Kind = %q, want %q", det.Kind, tc.want)
			}
			if det.RawContent != tc.input {
				t.Fatalf("RawContent = %q, want the data uri preserved", det.RawContent)
			}
		})
	}
}

// A data URI with a MIME type outside the document families is still valid
// input, it just is not a document. It falls through to plain text.
func TestClassify_UnknownDataURIFallsToText(t *testing.T) {
	in := "data:text/plain;base64,aGVsbG8="
	det := Classify(in)
	if det.Kind != KindText {
		t.Fatalf("Kind = %q, want text", det.Kind)
	}
	if det.RawContent != in {
		t.Fatalf("RawContent = %q, want input unchanged", det.RawContent)
	}
}

func TestClassify_FileExtensions(t *testing.T) {
	cases := []struct {
		input string
		want  InputKind
	}{
		{"report.pdf", KindDocumentPDF},
		{"Q3 Numbers.XLSX", KindDocumentSpreadsheet},
		{"team.csv", KindDocumentSpreadsheet},
		{"minutes.docx", KindDocumentWord},
		{"deck.pptx", KindDocumentWord},
		{"talk.key", KindDocumentWord},
		{"chart.png", KindDocumentImage},
		{"scan.jpeg", KindDocumentImage},
	}
	for _, tc := range cases {
		det := Classify(tc.input)
		if det.Kind != tc.want {
			t.Errorf("Classify(%q).Kind = %q, want %q", tc.input, det.Kind, tc.want)
		}
		if det.RawContent != tc.input {
			t.Errorf("Classify(%q).RawContent = %q, want the reference preserved", tc.input, det.RawContent)
		}
	}
}

// A URL ending in a document extension is a file reference first and a web
// page second. The extension check deliberately outranks the web pattern.
func TestClassify_DocumentURLOutranksWeb(t *testing.T) {
	det := Classify("https://example.com/whitepaper.pdf")
	if det.Kind != KindDocumentPDF {
		t.Fatalf("Kind = %q, want document_pdf", det.Kind)
	}
}

func TestClassify_WebURLs(t *testing.T) {
	cases := []string{
		"https://example.com/articles/coastal-erosion",
		"http://example.com/a",
		"HTTPS://EXAMPLE.COM/CAPS",
		"https://example.com/watch?v=not-youtube",
	}
	for _, in := range cases {
		det := Classify(in)
		if det.Kind != KindWeb {
			t.Errorf("Classify(%q).Kind = %q, want web", in, det.Kind)
		}
		if det.URL != in {
			t.Errorf("Classify(%q).URL = %q", in, det.URL)
		}
	}
}

func TestClassify_TrimsURLInputs(t *testing.T) {
	det := Classify("  https://example.com/x  \n")
	if det.Kind != KindWeb {
		t.Fatalf("Kind = %q, want web", det.Kind)
	}
	if det.URL != "https://example.com/x" {
		t.Fatalf("URL = %q, want surrounding whitespace stripped", det.URL)
	}
}

func TestClassify_TextDefault(t *testing.T) {
	cases := []string{
		"Photosynthesis turns light into sugar.",
		"ftp://example.com/file",
		"example.com",
		"notes.txt",
		"",
	}
	for _, in := range cases {
		det := Classify(in)
		if det.Kind != KindText {
			t.Errorf("Classify(%q).Kind = %q, want text", in, det.Kind)
		}
		if det.RawContent != in {
			t.Errorf("Classify(%q).RawContent = %q, want input byte-identical", in, det.RawContent)
		}
	}
}

// Text classification must not mutate the input, so classifying the carried
// content again reaches the same decision.
func TestClassify_TextIsIdempotent(t *testing.T) {
	in := "  Tide tables\nfor the survey.  "
	first := Classify(in)
	if first.Kind != KindText {
		t.Fatalf("first pass Kind = %q, want text", first.Kind)
	}
	second := Classify(first.RawContent)
	if second.Kind != KindText || second.RawContent != in {
		t.Fatalf("second pass diverged: kind %q content %q", second.Kind, second.RawContent)
	}
}
