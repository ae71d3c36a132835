package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hazyhaar/pagecorpus/docpipe"
	"go.uber.org/zap"
)

// Source is one document to ingest.
type Source struct {
	Path   string
	Format docpipe.Format
}

// Discover expands specs in order. Matches of one pattern come in lexical
// order (filepath.Glob); directories are skipped. A pattern matching
// nothing is logged, not an error.
func Discover(specs []SourceSpec, logger *zap.Logger) ([]Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var out []Source
	for _, spec := range specs {
		format, err := docpipe.ParseFormat(spec.Format)
		if err != nil {
			return nil, fmt.Errorf("corpus: source %q: %w", spec.Glob, err)
		}
		matches, err := filepath.Glob(spec.Glob)
		if err != nil {
			return nil, fmt.Errorf("corpus: source %q: %w", spec.Glob, err)
		}
		if len(matches) == 0 {
			logger.Warn("source pattern matched no files", zap.String("glob", spec.Glob))
			continue
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				continue
			}
			out = append(out, Source{Path: m, Format: format})
		}
		logger.Debug("source discovered", zap.String("glob", spec.Glob), zap.Int("files", len(matches)))
	}
	return out, nil
}
