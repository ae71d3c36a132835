package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/pagecorpus/corpus"
	"go.uber.org/zap"
)

// Run statuses.
const (
	RunRunning = "running"
	RunOK      = "ok"
	RunFailed  = "failed"
)

// RunInfo describes a run when it starts.
type RunInfo struct {
	OutputPath  string
	Language    string
	PDFEngine   string
	SourceCount int
}

// DocumentEvent is one recorded document outcome.
type DocumentEvent struct {
	EventID              string
	RunID                string
	Seq                  int
	Path                 string
	Format               string
	Status               string
	Stage                string
	Pages                int
	Sentences            int
	SegmentationFailures int
	NeedsOCR             bool
	Error                string
	DurationMs           int64
}

// RunRecord is one row of corpus_runs.
type RunRecord struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time // zero while running
	OutputPath  string
	Language    string
	PDFEngine   string
	SourceCount int
	RecordCount int
	Status      string
	Error       string
}

// Recorder writes runs and document events to the ledger.
type Recorder struct {
	db       *sql.DB
	newRunID Generator
	newEvtID Generator
	logger   *zap.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithIDGenerator sets the generator used for run and event IDs.
func WithIDGenerator(gen Generator) RecorderOption {
	return func(r *Recorder) {
		r.newRunID = Prefixed("run_", gen)
		r.newEvtID = Prefixed("evt_", gen)
	}
}

// WithLogger sets the logger for write failures (default: no-op).
func WithLogger(l *zap.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// NewRecorder creates a recorder backed by an opened ledger database.
func NewRecorder(db *sql.DB, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		db:       db,
		newRunID: Prefixed("run_", UUIDv7()),
		newEvtID: Prefixed("evt_", UUIDv7()),
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run is an open ledger entry. It implements corpus.Observer.
type Run struct {
	ID      string
	rec     *Recorder
	started time.Time
	seq     int
	metrics *MetricsBuffer
	totals  corpusTotals
}

type corpusTotals struct {
	documents, skipped, pages, sentences, segFailures int
}

// StartRun inserts a running row and returns the run handle.
func (r *Recorder) StartRun(ctx context.Context, info RunInfo) (*Run, error) {
	id := r.newRunID()
	now := time.Now()
	err := exec(ctx, r.db, `
		INSERT INTO corpus_runs (run_id, started_at, output_path, language, pdf_engine, source_count, status)
		VALUES (?,?,?,?,?,?,?)`,
		id, now.Unix(), info.OutputPath, info.Language, info.PDFEngine, info.SourceCount, RunRunning)
	if err != nil {
		return nil, fmt.Errorf("ledger: start run: %w", err)
	}
	return &Run{ID: id, rec: r, started: now, metrics: NewMetricsBuffer(r.db, id)}, nil
}

// DocumentDone records a document outcome. Write failures are logged,
// never returned: the corpus file is the run's product, not the ledger.
func (run *Run) DocumentDone(ctx context.Context, o corpus.DocumentOutcome) {
	run.seq++
	run.totals.documents++
	if o.Status == corpus.StatusSkipped {
		run.totals.skipped++
	}
	run.totals.pages += o.Pages
	run.totals.sentences += o.Sentences
	run.totals.segFailures += o.SegmentationFailures

	var errMsg sql.NullString
	if o.Err != nil {
		errMsg = sql.NullString{String: o.Err.Error(), Valid: true}
	}
	needsOCR := o.Quality != nil && o.Quality.NeedsOCR()

	err := exec(ctx, run.rec.db, `
		INSERT INTO document_events (
			event_id, run_id, seq, path, format, status, stage, pages, sentences,
			segmentation_failures, needs_ocr, error, duration_ms, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.rec.newEvtID(), run.ID, run.seq, o.Path, string(o.Format), string(o.Status), o.Stage,
		o.Pages, o.Sentences, o.SegmentationFailures, needsOCR, errMsg, o.Duration.Milliseconds(),
		time.Now().Unix())
	if err != nil {
		run.rec.logger.Warn("ledger document event failed", zap.Error(err), zap.String("path", o.Path))
	}

	run.metrics.Record(&Metric{
		Name:   MetricDocumentDurationMs,
		Value:  float64(o.Duration.Milliseconds()),
		Unit:   "milliseconds",
		Labels: map[string]string{"path": o.Path, "format": string(o.Format)},
	})
}

// Finish closes the run with its final status and flushes the run metrics.
// A nil runErr marks the run ok.
func (run *Run) Finish(ctx context.Context, recordCount int, runErr error) error {
	t := run.totals
	run.metrics.RecordSimple(MetricDocumentsTotal, float64(t.documents), "count")
	run.metrics.RecordSimple(MetricDocumentsSkipped, float64(t.skipped), "count")
	run.metrics.RecordSimple(MetricPagesTotal, float64(t.pages), "count")
	run.metrics.RecordSimple(MetricSentencesTotal, float64(t.sentences), "count")
	run.metrics.RecordSimple(MetricSegmentationFailures, float64(t.segFailures), "count")
	run.metrics.RecordSimple(MetricRunDurationMs, float64(time.Since(run.started).Milliseconds()), "milliseconds")
	if err := run.metrics.Flush(ctx); err != nil {
		return fmt.Errorf("ledger: flush metrics: %w", err)
	}

	status := RunOK
	var errMsg sql.NullString
	if runErr != nil {
		status = RunFailed
		errMsg = sql.NullString{String: runErr.Error(), Valid: true}
	}
	err := exec(ctx, run.rec.db,
		`UPDATE corpus_runs SET finished_at = ?, record_count = ?, status = ?, error = ? WHERE run_id = ?`,
		time.Now().Unix(), recordCount, status, errMsg, run.ID)
	if err != nil {
		return fmt.Errorf("ledger: finish run: %w", err)
	}
	return nil
}

// Documents returns the document events of a run in processing order.
func (r *Recorder) Documents(ctx context.Context, runID string) ([]DocumentEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT event_id, run_id, seq, path, format, status, COALESCE(stage, ''), pages, sentences,
			segmentation_failures, needs_ocr, COALESCE(error, ''), duration_ms
		FROM document_events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("ledger: query documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentEvent
	for rows.Next() {
		var e DocumentEvent
		if err := rows.Scan(&e.EventID, &e.RunID, &e.Seq, &e.Path, &e.Format, &e.Status, &e.Stage,
			&e.Pages, &e.Sentences, &e.SegmentationFailures, &e.NeedsOCR, &e.Error, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("ledger: scan document: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetRun returns one run, or sql.ErrNoRows.
func (r *Recorder) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	var rr RunRecord
	var started int64
	var finished sql.NullInt64
	var errMsg sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT run_id, started_at, finished_at, output_path, language, pdf_engine,
			source_count, record_count, status, error
		FROM corpus_runs WHERE run_id = ?`, runID).Scan(
		&rr.RunID, &started, &finished, &rr.OutputPath, &rr.Language, &rr.PDFEngine,
		&rr.SourceCount, &rr.RecordCount, &rr.Status, &errMsg)
	if err != nil {
		return nil, err
	}
	rr.StartedAt = time.Unix(started, 0)
	if finished.Valid {
		rr.FinishedAt = time.Unix(finished.Int64, 0)
	}
	rr.Error = errMsg.String
	return &rr, nil
}
