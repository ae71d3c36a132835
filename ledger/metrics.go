package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Metric is a single run datapoint.
type Metric struct {
	Name      string // e.g. "pages_total", "document_duration_ms"
	Timestamp time.Time
	Value     float64
	Labels    map[string]string // optional key/value pairs
	Unit      string            // "count", "milliseconds"
}

// Run metric names.
const (
	MetricDocumentsTotal       = "documents_total"
	MetricDocumentsSkipped     = "documents_skipped"
	MetricPagesTotal           = "pages_total"
	MetricSentencesTotal       = "sentences_total"
	MetricSegmentationFailures = "segmentation_failures"
	MetricDocumentDurationMs   = "document_duration_ms"
	MetricRunDurationMs        = "run_duration_ms"
)

// MetricsBuffer collects the metrics of one run and writes them in one
// transaction on Flush. It is not safe for concurrent use; runs are sequential.
type MetricsBuffer struct {
	db     *sql.DB
	runID  string
	buffer []*Metric
}

// NewMetricsBuffer creates an empty buffer for runID.
func NewMetricsBuffer(db *sql.DB, runID string) *MetricsBuffer {
	return &MetricsBuffer{db: db, runID: runID}
}

// Record queues a metric.
func (mb *MetricsBuffer) Record(m *Metric) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	mb.buffer = append(mb.buffer, m)
}

// RecordSimple is a convenience helper for metrics without labels.
func (mb *MetricsBuffer) RecordSimple(name string, value float64, unit string) {
	mb.Record(&Metric{Name: name, Value: value, Unit: unit})
}

// Len returns the number of metrics waiting for Flush.
func (mb *MetricsBuffer) Len() int { return len(mb.buffer) }

// Flush writes the buffered metrics and empties the buffer. On error the
// buffer is kept so the caller may retry.
func (mb *MetricsBuffer) Flush(ctx context.Context) error {
	if len(mb.buffer) == 0 {
		return nil
	}
	err := RunTx(ctx, mb.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_metrics (run_id, metric_name, timestamp, value, labels, unit) VALUES (?,?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("ledger metrics: prepare: %w", err)
		}
		defer stmt.Close()

		for _, m := range mb.buffer {
			var labelsJSON sql.NullString
			if len(m.Labels) > 0 {
				if b, err := json.Marshal(m.Labels); err == nil {
					labelsJSON = sql.NullString{String: string(b), Valid: true}
				}
			}
			if _, err := stmt.ExecContext(ctx, mb.runID, m.Name, m.Timestamp.Unix(), m.Value, labelsJSON, m.Unit); err != nil {
				return fmt.Errorf("ledger metrics: insert %s: %w", m.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	mb.buffer = mb.buffer[:0]
	return nil
}

// QueryMetrics retrieves the metrics of a run, optionally filtered by name.
func QueryMetrics(ctx context.Context, db *sql.DB, runID, metricName string) ([]*Metric, error) {
	q := "SELECT metric_name, timestamp, value, labels, unit FROM run_metrics WHERE run_id = ?"
	args := []any{runID}
	if metricName != "" {
		q += " AND metric_name = ?"
		args = append(args, metricName)
	}
	q += " ORDER BY rowid"

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	var out []*Metric
	for rows.Next() {
		var name string
		var unit sql.NullString
		var ts int64
		var value float64
		var labelsJSON sql.NullString

		if err := rows.Scan(&name, &ts, &value, &labelsJSON, &unit); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		m := &Metric{Name: name, Timestamp: time.Unix(ts, 0), Value: value, Unit: unit.String}
		if labelsJSON.Valid {
			var labels map[string]string
			if json.Unmarshal([]byte(labelsJSON.String), &labels) == nil {
				m.Labels = labels
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
