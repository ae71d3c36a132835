package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazyhaar/pagecorpus/corpus"
	"github.com/hazyhaar/pagecorpus/docpipe"
	"github.com/hazyhaar/pagecorpus/ledger"
	"github.com/hazyhaar/pagecorpus/segment"
)

type buildFlags struct {
	configPath string
	sources    []string
	format     string
	output     string
	language   string
	model      string
	pdfEngine  string
	ledgerPath string
	sample     int
}

func newBuildCmd() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Extract, annotate and segment all sources, then write the corpus file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, &f)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runBuild(cmd.Context(), logger, cfg, f.sample, cmd.OutOrStdout())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "path to pagecorpus.yaml config file")
	fl.StringArrayVar(&f.sources, "source", nil, "source glob (repeatable, replaces configured sources)")
	fl.StringVar(&f.format, "format", string(docpipe.FormatAuto), "format of --source matches: pdf, latex, auto")
	fl.StringVarP(&f.output, "output", "o", "", "output corpus path")
	fl.StringVar(&f.language, "language", "", "segmentation language (ro, en, fr)")
	fl.StringVar(&f.model, "segmenter-model", "", "punkt training JSON for the segmenter")
	fl.StringVar(&f.pdfEngine, "pdf-engine", "", "PDF text engine: ledongthuc, pdfcpu")
	fl.StringVar(&f.ledgerPath, "ledger", "", "SQLite run ledger path (disabled when empty)")
	fl.IntVar(&f.sample, "sample", 1, "number of random records to print after the build (0 disables)")
	return cmd
}

// resolveConfig loads the config file (or defaults) and applies flag overrides.
func resolveConfig(cmd *cobra.Command, f *buildFlags) (*corpus.Config, error) {
	cfg := corpus.DefaultConfig()
	if f.configPath != "" {
		var err error
		cfg, err = corpus.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if len(f.sources) > 0 {
		cfg.Sources = cfg.Sources[:0]
		for _, g := range f.sources {
			cfg.Sources = append(cfg.Sources, corpus.SourceSpec{Glob: g, Format: f.format})
		}
	}
	if changed("output") {
		cfg.OutputPath = f.output
	}
	if changed("language") {
		cfg.Language = f.language
	}
	if changed("segmenter-model") {
		cfg.SegmenterModel = f.model
	}
	if changed("pdf-engine") {
		cfg.PDFEngine = f.pdfEngine
	}
	if changed("ledger") {
		cfg.LedgerPath = f.ledgerPath
	}
	if changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func runBuild(ctx context.Context, logger *zap.Logger, cfg *corpus.Config, sampleN int, out io.Writer) error {
	sources, err := corpus.Discover(cfg.Sources, logger)
	if err != nil {
		return err
	}
	logger.Info("sources discovered", zap.Int("count", len(sources)))

	pcfg := cfg.PipelineConfig()
	pcfg.Logger = logger
	pipe, err := docpipe.New(pcfg)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	segOpts := []segment.Option{segment.WithLogger(logger)}
	if cfg.SegmenterModel != "" {
		segOpts = append(segOpts, segment.WithModelFile(cfg.SegmenterModel))
	}
	seg, err := segment.New(cfg.Language, segOpts...)
	if err != nil {
		return fmt.Errorf("init segmenter: %w", err)
	}
	defer seg.Close()

	builderOpts := []corpus.BuilderOption{corpus.WithLogger(logger)}
	run, db := startLedger(ctx, logger, cfg, len(sources))
	if run != nil {
		defer db.Close()
		builderOpts = append(builderOpts, corpus.WithObserver(run))
	}

	res, buildErr := corpus.NewBuilder(pipe, seg, builderOpts...).Build(ctx, sources)
	if buildErr == nil {
		buildErr = corpus.WriteJSON(cfg.OutputPath, res.Records)
	}
	if run != nil {
		recordCount := 0
		if res != nil && buildErr == nil {
			recordCount = len(res.Records)
		}
		if err := run.Finish(context.WithoutCancel(ctx), recordCount, buildErr); err != nil {
			logger.Warn("ledger finish failed", zap.Error(err))
		}
	}
	if buildErr != nil {
		return buildErr
	}

	logger.Info("corpus written",
		zap.String("output", cfg.OutputPath),
		zap.Int("documents", len(res.Outcomes)),
		zap.Int("skipped", len(res.Skipped())),
		zap.Int("records", len(res.Records)),
		zap.Int("segmentation_failures", res.SegmentationFailures()),
	)

	if sampleN > 0 {
		return printRecords(out, corpus.Sample(res.Records, sampleN, nil))
	}
	return nil
}

// startLedger opens the run ledger when configured. Failures are logged and
// the build continues without it.
func startLedger(ctx context.Context, logger *zap.Logger, cfg *corpus.Config, sourceCount int) (*ledger.Run, *sql.DB) {
	if cfg.LedgerPath == "" {
		return nil, nil
	}
	db, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		logger.Warn("ledger disabled", zap.String("path", cfg.LedgerPath), zap.Error(err))
		return nil, nil
	}
	rec := ledger.NewRecorder(db, ledger.WithLogger(logger))
	run, err := rec.StartRun(ctx, ledger.RunInfo{
		OutputPath:  cfg.OutputPath,
		Language:    cfg.Language,
		PDFEngine:   cfg.PDFEngine,
		SourceCount: sourceCount,
	})
	if err != nil {
		db.Close()
		logger.Warn("ledger disabled", zap.String("path", cfg.LedgerPath), zap.Error(err))
		return nil, nil
	}
	logger.Info("ledger run started", zap.String("run_id", run.ID), zap.String("path", cfg.LedgerPath))
	return run, db
}
