package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.OutputPath != "teste_admitere_fizica.json" || cfg.Language != "ro" || len(cfg.Sources) != 2 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxFileBytes() != 100*1024*1024 {
		t.Errorf("MaxFileBytes = %d", cfg.MaxFileBytes())
	}
}

func TestLoadConfig(t *testing.T) {
	yml := `
sources:
  - glob: "latex_docs/Chimie/*.tex"
    format: latex
output_path: chimie.json
pdf_engine: pdfcpu
ledger_path: runs.db
`
	path := filepath.Join(t.TempDir(), "pagecorpus.yaml")
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Format != "latex" {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	if cfg.OutputPath != "chimie.json" || cfg.PDFEngine != "pdfcpu" || cfg.LedgerPath != "runs.db" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Language != "ro" || cfg.LaTeXFallbackEncoding != "iso-8859-2" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	pc := cfg.PipelineConfig()
	if pc.PDFEngine != "pdfcpu" || pc.MaxFileSize != cfg.MaxFileBytes() {
		t.Errorf("pipeline config = %+v", pc)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("sources: [:"), 0644)
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no sources", func(c *Config) { c.Sources = nil }, "source"},
		{"empty glob", func(c *Config) { c.Sources[0].Glob = "" }, "glob"},
		{"bad format", func(c *Config) { c.Sources[0].Format = "docx" }, "unsupported format"},
		{"no output", func(c *Config) { c.OutputPath = "" }, "output_path"},
		{"unknown language", func(c *Config) { c.Language = "hu" }, "segmenter_model"},
		{"bad engine", func(c *Config) { c.PDFEngine = "mupdf" }, "pdf_engine"},
		{"bad size", func(c *Config) { c.MaxFileMB = 0 }, "max_file_mb"},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Language = "hu"
	cfg.SegmenterModel = "hungarian.json"
	if err := cfg.Validate(); err != nil {
		t.Errorf("language with model should be valid: %v", err)
	}
}
