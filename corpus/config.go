package corpus

import (
	"fmt"
	"os"

	"github.com/hazyhaar/pagecorpus/docpipe"
	"github.com/hazyhaar/pagecorpus/segment"
	"gopkg.in/yaml.v3"
)

// Config holds the full corpus build configuration.
type Config struct {
	Sources               []SourceSpec `yaml:"sources"`
	OutputPath            string       `yaml:"output_path"`
	Language              string       `yaml:"language"`
	SegmenterModel        string       `yaml:"segmenter_model"`
	PDFEngine             string       `yaml:"pdf_engine"`
	LaTeXFallbackEncoding string       `yaml:"latex_fallback_encoding"`
	MaxFileMB             int          `yaml:"max_file_mb"`
	LedgerPath            string       `yaml:"ledger_path"`
	LogLevel              string       `yaml:"log_level"`
}

// SourceSpec selects input documents: a glob pattern and the format of its matches.
type SourceSpec struct {
	Glob   string `yaml:"glob"`
	Format string `yaml:"format"` // pdf | latex | auto
}

// DefaultConfig returns the settings of the physics admission-test corpus.
func DefaultConfig() *Config {
	return &Config{
		Sources: []SourceSpec{
			{Glob: "pdfs/Fizica/*.pdf", Format: "pdf"},
			{Glob: "latex_docs/Fizica/*.tex", Format: "latex"},
		},
		OutputPath:            "teste_admitere_fizica.json",
		Language:              "ro",
		PDFEngine:             docpipe.EngineLedongthuc,
		LaTeXFallbackEncoding: "iso-8859-2",
		MaxFileMB:             100,
		LogLevel:              "info",
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	for i, s := range c.Sources {
		if s.Glob == "" {
			return fmt.Errorf("sources[%d]: glob is required", i)
		}
		if _, err := docpipe.ParseFormat(s.Format); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output_path is required")
	}
	if c.Language == "" {
		return fmt.Errorf("language is required")
	}
	if c.SegmenterModel == "" && !knownLanguage(c.Language) {
		return fmt.Errorf("language %q has no built-in segmenter (set segmenter_model)", c.Language)
	}
	switch c.PDFEngine {
	case docpipe.EngineLedongthuc, docpipe.EnginePDFCPU:
	default:
		return fmt.Errorf("unsupported pdf_engine %q (use %s or %s)", c.PDFEngine, docpipe.EngineLedongthuc, docpipe.EnginePDFCPU)
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}
	return nil
}

// MaxFileBytes returns max file size in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }

// PipelineConfig derives the docpipe configuration.
func (c *Config) PipelineConfig() docpipe.Config {
	return docpipe.Config{
		MaxFileSize:      c.MaxFileBytes(),
		PDFEngine:        c.PDFEngine,
		FallbackEncoding: c.LaTeXFallbackEncoding,
	}
}

func knownLanguage(lang string) bool {
	for _, l := range segment.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}
