// CLAUDE:SUMMARY Configuration struct and defaults for the docpipe page extraction pipeline.
package docpipe

import "go.uber.org/zap"

// PDF engines.
const (
	EngineLedongthuc = "ledongthuc"
	EnginePDFCPU     = "pdfcpu"
)

// Config configures the document pipeline.
type Config struct {
	// MaxFileSize is the maximum file size to process (default: 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// PDFEngine selects the PDF text extractor (default: ledongthuc).
	PDFEngine string `json:"pdf_engine" yaml:"pdf_engine"`

	// FallbackEncoding decodes LaTeX sources that are not valid UTF-8
	// (default: iso-8859-2). Any name known to the WHATWG encoding index.
	FallbackEncoding string `json:"fallback_encoding" yaml:"fallback_encoding"`

	// Logger for debug/error messages.
	Logger *zap.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.PDFEngine == "" {
		c.PDFEngine = EngineLedongthuc
	}
	if c.FallbackEncoding == "" {
		c.FallbackEncoding = "iso-8859-2"
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
