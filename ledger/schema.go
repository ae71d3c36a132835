package ledger

import (
	"database/sql"
	"fmt"
)

// Schema contains the complete DDL for the ledger tables.
const Schema = `
-- One row per corpus build
CREATE TABLE IF NOT EXISTS corpus_runs (
    run_id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    finished_at INTEGER,
    output_path TEXT NOT NULL,
    language TEXT NOT NULL,
    pdf_engine TEXT NOT NULL,
    source_count INTEGER NOT NULL DEFAULT 0,
    record_count INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running',
    error TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON corpus_runs(started_at DESC);

-- One row per document outcome, in processing order
CREATE TABLE IF NOT EXISTS document_events (
    event_id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES corpus_runs(run_id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    path TEXT NOT NULL,
    format TEXT NOT NULL,
    status TEXT NOT NULL,
    stage TEXT,
    pages INTEGER NOT NULL DEFAULT 0,
    sentences INTEGER NOT NULL DEFAULT 0,
    segmentation_failures INTEGER NOT NULL DEFAULT 0,
    needs_ocr INTEGER NOT NULL DEFAULT 0,
    error TEXT,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_events_run_seq ON document_events(run_id, seq);
CREATE INDEX IF NOT EXISTS idx_events_status ON document_events(status);

-- Run metrics
CREATE TABLE IF NOT EXISTS run_metrics (
    metric_id TEXT PRIMARY KEY DEFAULT ('met_' || hex(randomblob(16))),
    run_id TEXT NOT NULL REFERENCES corpus_runs(run_id) ON DELETE CASCADE,
    metric_name TEXT NOT NULL,
    timestamp INTEGER NOT NULL,
    value REAL NOT NULL,
    labels TEXT,
    unit TEXT
);
CREATE INDEX IF NOT EXISTS idx_metrics_run_name ON run_metrics(run_id, metric_name);
`

// Init applies the ledger schema. Safe to call more than once.
func Init(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("ledger: init schema: %w", err)
	}
	return nil
}
