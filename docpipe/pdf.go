// CLAUDE:SUMMARY PDF page extractor — lazy per-page iteration over a pluggable engine, all-or-nothing per document.
// CLAUDE:DEPENDS docpipe/pdf_ledongthuc.go, docpipe/pdf_pdfcpu.go, docpipe/quality.go
// CLAUDE:EXPORTS PDFExtractor, NewPDFExtractor
package docpipe

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// pdfEngine opens PDF files for page-wise text extraction.
type pdfEngine interface {
	Name() string
	Open(path string) (pdfDocument, error)
}

// pdfDocument is an open PDF. Page indexes are zero-based.
type pdfDocument interface {
	NumPages() int
	PageText(index int) (string, error)
	HasImages() bool
	Close() error
}

// PDFExtractor extracts one page record per PDF page.
type PDFExtractor struct {
	engine      pdfEngine
	maxFileSize int64
	logger      *zap.Logger
}

// NewPDFExtractor returns an extractor for the engine named in cfg.
func NewPDFExtractor(cfg Config) (*PDFExtractor, error) {
	cfg.defaults()
	var engine pdfEngine
	switch cfg.PDFEngine {
	case EngineLedongthuc:
		engine = ledongthucEngine{}
	case EnginePDFCPU:
		engine = pdfcpuEngine{}
	default:
		return nil, fmt.Errorf("docpipe: unknown pdf engine %q", cfg.PDFEngine)
	}
	return newPDFExtractor(engine, cfg), nil
}

func newPDFExtractor(engine pdfEngine, cfg Config) *PDFExtractor {
	cfg.defaults()
	return &PDFExtractor{engine: engine, maxFileSize: cfg.MaxFileSize, logger: cfg.Logger}
}

// Format implements PageExtractor.
func (e *PDFExtractor) Format() Format { return FormatPDF }

// Engine returns the name of the underlying PDF engine.
func (e *PDFExtractor) Engine() string { return e.engine.Name() }

func (e *PDFExtractor) open(path string) (pdfDocument, error) {
	if err := checkFile(path, FormatPDF, e.maxFileSize); err != nil {
		return nil, err
	}
	doc, err := e.engine.Open(path)
	if err != nil {
		return nil, openError(path, FormatPDF, StageOpen, fmt.Errorf("%s: %w", e.engine.Name(), err))
	}
	return doc, nil
}

// Pages yields the raw text of each page in order. The file is opened when
// iteration starts and closed when it ends or the consumer stops early; a
// failure is yielded once and ends the sequence. Ranging again reopens the file.
func (e *PDFExtractor) Pages(path string) iter.Seq2[RawPage, error] {
	return func(yield func(RawPage, error) bool) {
		doc, err := e.open(path)
		if err != nil {
			yield(RawPage{}, err)
			return
		}
		defer doc.Close()

		for page, err := range pageSeq(doc) {
			if err != nil {
				yield(RawPage{}, openError(path, FormatPDF, StageExtract, err))
				return
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}

// Extract returns the normalized page records of the document. If any page
// fails the whole document fails and no records are returned.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (*Document, error) {
	doc, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	records := make([]PageRecord, 0, doc.NumPages())
	texts := make([]string, 0, doc.NumPages())
	for page, err := range pageSeq(doc) {
		if err != nil {
			return nil, openError(path, FormatPDF, StageExtract, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := NewPageRecord(page.Index, page.Text)
		texts = append(texts, rec.Text)
		records = append(records, rec)
	}

	quality := measureQuality(texts, doc.NumPages(), doc.HasImages())
	e.logger.Debug("pdf extracted",
		zap.String("path", path),
		zap.String("engine", e.engine.Name()),
		zap.Int("pages", len(records)),
	)

	return &Document{
		Path:    path,
		Format:  FormatPDF,
		Pages:   records,
		Quality: quality,
	}, nil
}

func pageSeq(doc pdfDocument) iter.Seq2[RawPage, error] {
	return func(yield func(RawPage, error) bool) {
		n := doc.NumPages()
		for i := 0; i < n; i++ {
			text, err := doc.PageText(i)
			if err != nil {
				yield(RawPage{Index: i}, fmt.Errorf("page %d: %w", i, err))
				return
			}
			if !yield(RawPage{Index: i, Text: text}, nil) {
				return
			}
		}
	}
}
