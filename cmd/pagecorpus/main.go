// CLAUDE:SUMMARY CLI entry point for pagecorpus — builds the JSON page corpus from PDF and LaTeX sources.
// Command pagecorpus turns a set of PDF and LaTeX documents into a JSON
// corpus of page records with statistics and sentences.
//
// Usage:
//
//	pagecorpus build                                  # default physics sources
//	pagecorpus build --config pagecorpus.yaml         # run with config file
//	pagecorpus build --source 'docs/*.pdf' --output corpus.json --ledger runs.db
//	pagecorpus sample --corpus corpus.json -n 3       # print random records
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "pagecorpus",
		Short:         "Build a page-level JSON corpus from PDF and LaTeX documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config, else info)")
	root.AddCommand(newBuildCmd(), newSampleCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pagecorpus: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a JSON production logger on stderr, or the console
// development logger at debug level.
func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
