// CLAUDE:SUMMARY Core pipeline engine that dispatches page extraction by format (pdf, latex).
// Package docpipe extracts normalized, statistics-annotated page records
// from document files.
//
// Supported formats:
//   - .pdf  — one record per page (ledongthuc/pdf or pdfcpu engine)
//   - .tex  — one record for the whole document (LaTeX node tree flattened to text)
//
// Records carry the normalized text and its counts; sentence segmentation
// is left to the caller.
//
// Usage:
//
//	pipe, err := docpipe.New(docpipe.Config{})
//	doc, err := pipe.Extract(ctx, "/path/to/file.pdf", docpipe.FormatAuto)
//	fmt.Println(len(doc.Pages), "pages")
package docpipe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg        Config
	logger     *zap.Logger
	extractors map[Format]PageExtractor
}

// New creates a Pipeline with the PDF and LaTeX extractors configured by cfg.
func New(cfg Config) (*Pipeline, error) {
	cfg.defaults()
	pdfx, err := NewPDFExtractor(cfg)
	if err != nil {
		return nil, err
	}
	texx, err := NewLaTeXExtractor(cfg)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:        cfg,
		logger:     cfg.Logger,
		extractors: make(map[Format]PageExtractor),
	}
	p.Register(pdfx)
	p.Register(texx)
	return p, nil
}

// Register installs e for its format, replacing any previous extractor.
func (p *Pipeline) Register(e PageExtractor) {
	p.extractors[e.Format()] = e
}

// Detect returns the document format based on file extension.
func (p *Pipeline) Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".tex", ".latex", ".ltx":
		return FormatLaTeX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Extract runs the extractor for format over path. FormatAuto (or "")
// detects the format from the extension.
func (p *Pipeline) Extract(ctx context.Context, path string, format Format) (*Document, error) {
	if format == "" || format == FormatAuto {
		detected, err := p.Detect(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	ext, ok := p.extractors[format]
	if !ok {
		return nil, fmt.Errorf("%w: no extractor for %s", ErrUnsupportedFormat, format)
	}

	p.logger.Debug("extracting document", zap.String("path", path), zap.String("format", string(format)))

	doc, err := ext.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	for i := range doc.Pages {
		doc.Pages[i].Source = path
		doc.Pages[i].Format = format
	}
	return doc, nil
}

// SupportedFormats returns all supported format names.
func SupportedFormats() []string {
	return []string{string(FormatPDF), string(FormatLaTeX)}
}
