package docpipe

import (
	"context"
	"errors"
	"testing"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	pipe, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	return pipe
}

func TestDetect(t *testing.T) {
	pipe := newTestPipeline(t)

	tests := []struct {
		path   string
		format Format
	}{
		{"doc.pdf", FormatPDF},
		{"DOC.PDF", FormatPDF},
		{"doc.tex", FormatLaTeX},
		{"doc.latex", FormatLaTeX},
		{"dir/sub/test_1.ltx", FormatLaTeX},
	}

	for _, tt := range tests {
		f, err := pipe.Detect(tt.path)
		if err != nil {
			t.Errorf("Detect(%q): %v", tt.path, err)
			continue
		}
		if f != tt.format {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, f, tt.format)
		}
	}

	// Unsupported format.
	if _, err := pipe.Detect("file.docx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"pdf", FormatPDF},
		{"PDF", FormatPDF},
		{"latex", FormatLaTeX},
		{"tex", FormatLaTeX},
		{"", FormatAuto},
		{"auto", FormatAuto},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("odt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestPipelineExtract_AutoLaTeX(t *testing.T) {
	// WHAT: Auto format resolves by extension and stamps provenance on records.
	// WHY: Corpus consumers need to trace each page back to its file.
	path := writeFile(t, "subiect.tex", []byte("Enunț.\nRezolvare."))
	pipe := newTestPipeline(t)

	doc, err := pipe.Extract(context.Background(), path, FormatAuto)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != FormatLaTeX {
		t.Fatalf("expected latex format, got %s", doc.Format)
	}
	rec := doc.Pages[0]
	if rec.Source != path || rec.Format != FormatLaTeX {
		t.Errorf("provenance = %q/%q", rec.Source, rec.Format)
	}
	if rec.Text != "Enunț. Rezolvare." {
		t.Errorf("text = %q", rec.Text)
	}
}

func TestPipelineExtract_ExplicitFormatWins(t *testing.T) {
	// A .txt file forced to LaTeX goes through the LaTeX extractor.
	path := writeFile(t, "notes.txt", []byte("plain"))
	pipe := newTestPipeline(t)

	doc, err := pipe.Extract(context.Background(), path, FormatLaTeX)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Text != "plain" {
		t.Errorf("unexpected pages: %+v", doc.Pages)
	}

	if _, err := pipe.Extract(context.Background(), path, FormatAuto); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat for auto .txt, got %v", err)
	}
}

func TestPipelineExtract_RegisteredEngine(t *testing.T) {
	path := writeFile(t, "x.pdf", []byte("%PDF-1.4"))
	pipe := newTestPipeline(t)
	pipe.Register(newPDFExtractor(&fakeEngine{pages: []string{"a", "b"}, failAt: -1}, Config{}))

	doc, err := pipe.Extract(context.Background(), path, FormatPDF)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Pages) != 2 || doc.Pages[1].Source != path || doc.Pages[1].Format != FormatPDF {
		t.Errorf("unexpected pages: %+v", doc.Pages)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{PDFEngine: "mupdf"}); err == nil {
		t.Error("expected error for unknown pdf engine")
	}
	if _, err := New(Config{FallbackEncoding: "nope"}); err == nil {
		t.Error("expected error for unknown fallback encoding")
	}
}

func TestDocumentError_Message(t *testing.T) {
	err := &DocumentError{Path: "a.pdf", Format: FormatPDF, Stage: StageOpen, Kind: ErrDocumentOpen, Err: errors.New("boom")}
	if got := err.Error(); got != "docpipe: open a.pdf (pdf): boom" {
		t.Errorf("Error() = %q", got)
	}
}
