// CLAUDE:SUMMARY LaTeX extractor — reads the source (with legacy-encoding fallback), parses, flattens to a single page record.
// CLAUDE:DEPENDS docpipe/latex_parse.go
// CLAUDE:EXPORTS LaTeXExtractor, NewLaTeXExtractor
package docpipe

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// LaTeXExtractor turns a .tex file into exactly one page record (page 0).
type LaTeXExtractor struct {
	fallback     encoding.Encoding
	fallbackName string
	maxFileSize  int64
	logger       *zap.Logger
}

// NewLaTeXExtractor resolves the fallback encoding named in cfg.
func NewLaTeXExtractor(cfg Config) (*LaTeXExtractor, error) {
	cfg.defaults()
	enc, err := htmlindex.Get(cfg.FallbackEncoding)
	if err != nil {
		return nil, fmt.Errorf("docpipe: fallback encoding %q: %w", cfg.FallbackEncoding, err)
	}
	return &LaTeXExtractor{
		fallback:     enc,
		fallbackName: cfg.FallbackEncoding,
		maxFileSize:  cfg.MaxFileSize,
		logger:       cfg.Logger,
	}, nil
}

// Format implements PageExtractor.
func (e *LaTeXExtractor) Format() Format { return FormatLaTeX }

// Extract reads, parses and flattens the document. Malformed markup fails
// with ErrParse; an empty file yields one empty record.
func (e *LaTeXExtractor) Extract(ctx context.Context, path string) (*Document, error) {
	if err := checkFile(path, FormatLaTeX, e.maxFileSize); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, openError(path, FormatLaTeX, StageRead, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := e.decode(data)
	if err != nil {
		return nil, openError(path, FormatLaTeX, StageDecode, err)
	}

	nodes, err := ParseLaTeX(src)
	if err != nil {
		return nil, &DocumentError{Path: path, Format: FormatLaTeX, Stage: StageParse, Kind: ErrParse, Err: err}
	}

	rec := NewPageRecord(0, FlattenLaTeX(nodes))
	e.logger.Debug("latex extracted",
		zap.String("path", path),
		zap.Int("nodes", len(nodes)),
		zap.Int("chars", rec.CharCount),
	)

	return &Document{
		Path:    path,
		Format:  FormatLaTeX,
		Pages:   []PageRecord{rec},
		Quality: measureQuality([]string{rec.Text}, 1, false),
	}, nil
}

func (e *LaTeXExtractor) decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := e.fallback.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", e.fallbackName, err)
	}
	e.logger.Debug("latex source is not utf-8, decoded with fallback", zap.String("encoding", e.fallbackName))
	return string(out), nil
}
