package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/pagecorpus/docpipe"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "c.tex"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir.pdf"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Discover([]SourceSpec{
		{Glob: filepath.Join(dir, "*.pdf"), Format: "pdf"},
		{Glob: filepath.Join(dir, "*.tex"), Format: "latex"},
		{Glob: filepath.Join(dir, "*.none"), Format: "auto"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []Source{
		{Path: filepath.Join(dir, "a.pdf"), Format: docpipe.FormatPDF},
		{Path: filepath.Join(dir, "b.pdf"), Format: docpipe.FormatPDF},
		{Path: filepath.Join(dir, "c.tex"), Format: docpipe.FormatLaTeX},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sources, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("source %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDiscover_Errors(t *testing.T) {
	if _, err := Discover([]SourceSpec{{Glob: "[", Format: "pdf"}}, nil); err == nil {
		t.Error("expected error for malformed pattern")
	}
	if _, err := Discover([]SourceSpec{{Glob: "*.pdf", Format: "odt"}}, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
