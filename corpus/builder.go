// CLAUDE:SUMMARY Corpus builder — sequential extract → segment → accumulate over discovered sources, per-document outcomes.
// CLAUDE:DEPENDS docpipe, segment
// CLAUDE:EXPORTS Builder, NewBuilder, Result, DocumentOutcome, Observer, Extractor, Segmenter
// Package corpus assembles page records from many documents into one
// annotated corpus and persists it.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/pagecorpus/docpipe"
	"github.com/hazyhaar/pagecorpus/segment"
	"go.uber.org/zap"
)

// Extractor produces the page records of one document. *docpipe.Pipeline implements it.
type Extractor interface {
	Extract(ctx context.Context, path string, format docpipe.Format) (*docpipe.Document, error)
}

// Segmenter annotates a record with its sentences. *segment.Segmenter implements it.
type Segmenter interface {
	Annotate(rec *docpipe.PageRecord) error
}

// Observer is told about every document once it is done or skipped.
type Observer interface {
	DocumentDone(ctx context.Context, o DocumentOutcome)
}

// Status of a document in a run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
)

// StageDetect is reported when the format of an auto source cannot be resolved.
const StageDetect = "detect"

// DocumentOutcome records what happened to one source.
type DocumentOutcome struct {
	Path                 string
	Format               docpipe.Format
	Status               Status
	Pages                int
	Sentences            int
	SegmentationFailures int
	Stage                string // failing stage when skipped
	Err                  error
	Quality              *docpipe.ExtractionQuality
	Duration             time.Duration
}

// Result is the output of one run.
type Result struct {
	Records  []docpipe.PageRecord
	Outcomes []DocumentOutcome
}

// Skipped returns the outcomes of documents left out of the corpus.
func (r *Result) Skipped() []DocumentOutcome {
	var out []DocumentOutcome
	for _, o := range r.Outcomes {
		if o.Status == StatusSkipped {
			out = append(out, o)
		}
	}
	return out
}

// SegmentationFailures returns the number of pages kept without sentences.
func (r *Result) SegmentationFailures() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.SegmentationFailures
	}
	return n
}

// Builder runs documents through extraction and segmentation, one at a time.
type Builder struct {
	extractor Extractor
	segmenter Segmenter
	observer  Observer
	logger    *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithObserver registers an observer for document outcomes.
func WithObserver(o Observer) BuilderOption {
	return func(b *Builder) { b.observer = o }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder. The segmenter is borrowed; the caller closes it.
func NewBuilder(ext Extractor, seg Segmenter, opts ...BuilderOption) *Builder {
	b := &Builder{extractor: ext, segmenter: seg, logger: zap.NewNop()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build processes sources in order and returns the accumulated records.
// Open and parse failures skip the document; segmentation failures keep
// the page with no sentences. Cancellation aborts the whole run.
func (b *Builder) Build(ctx context.Context, sources []Source) (*Result, error) {
	res := &Result{Records: []docpipe.PageRecord{}}

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("corpus: build aborted: %w", err)
		}

		outcome, records, err := b.buildOne(ctx, src)
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, records...)
		res.Outcomes = append(res.Outcomes, outcome)

		if outcome.Status == StatusSkipped {
			b.logger.Warn("document skipped",
				zap.String("path", src.Path),
				zap.String("stage", outcome.Stage),
				zap.Error(outcome.Err),
			)
		} else {
			b.logger.Info("document processed",
				zap.Int("n", i+1),
				zap.Int("of", len(sources)),
				zap.String("path", src.Path),
				zap.String("format", string(outcome.Format)),
				zap.Int("pages", outcome.Pages),
				zap.Int("sentences", outcome.Sentences),
			)
		}
		if b.observer != nil {
			b.observer.DocumentDone(ctx, outcome)
		}
	}

	return res, nil
}

func (b *Builder) buildOne(ctx context.Context, src Source) (DocumentOutcome, []docpipe.PageRecord, error) {
	start := time.Now()
	outcome := DocumentOutcome{Path: src.Path, Format: src.Format}

	doc, err := b.extractor.Extract(ctx, src.Path, src.Format)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return outcome, nil, fmt.Errorf("corpus: build aborted: %w", err)
		}
		stage, ok := skipStage(err)
		if !ok {
			return outcome, nil, fmt.Errorf("corpus: %s: %w", src.Path, err)
		}
		outcome.Status = StatusSkipped
		outcome.Stage = stage
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome, nil, nil
	}

	outcome.Format = doc.Format
	outcome.Quality = doc.Quality
	for i := range doc.Pages {
		rec := &doc.Pages[i]
		if err := b.segmenter.Annotate(rec); err != nil {
			if !errors.Is(err, segment.ErrSegmentation) {
				return outcome, nil, fmt.Errorf("corpus: segment %s page %d: %w", src.Path, rec.PageNumber, err)
			}
			outcome.SegmentationFailures++
			b.logger.Warn("page kept without sentences",
				zap.String("path", src.Path),
				zap.Int("page", rec.PageNumber),
				zap.Error(err),
			)
		}
		outcome.Sentences += rec.SentenceCountSegmented
	}

	if q := doc.Quality; q != nil {
		if q.NeedsOCR() {
			b.logger.Warn("document likely needs OCR",
				zap.String("path", src.Path),
				zap.Float64("chars_per_page", q.CharsPerPage),
				zap.Float64("printable_ratio", q.PrintableRatio),
			)
		}
		if q.HasVisualGap() {
			b.logger.Info("document references figures that were not extracted",
				zap.String("path", src.Path),
				zap.Int("visual_refs", q.VisualRefCount),
			)
		}
	}

	outcome.Status = StatusOK
	outcome.Pages = len(doc.Pages)
	outcome.Duration = time.Since(start)
	return outcome, doc.Pages, nil
}

// skipStage reports whether err is a per-document failure, and its stage.
func skipStage(err error) (string, bool) {
	if errors.Is(err, docpipe.ErrUnsupportedFormat) {
		return StageDetect, true
	}
	if !errors.Is(err, docpipe.ErrDocumentOpen) && !errors.Is(err, docpipe.ErrParse) {
		return "", false
	}
	var de *docpipe.DocumentError
	if errors.As(err, &de) {
		return de.Stage, true
	}
	return docpipe.StageOpen, true
}
