package docpipe

import (
	"context"
	"fmt"
	"os"
)

// PageExtractor turns one document of a given format into page records.
// Records come back normalized and annotated with statistics, sentences unset.
type PageExtractor interface {
	Format() Format
	Extract(ctx context.Context, path string) (*Document, error)
}

// checkFile rejects missing paths, directories, and files above maxSize.
func checkFile(path string, format Format, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return openError(path, format, StageStat, err)
	}
	if info.IsDir() {
		return openError(path, format, StageStat, fmt.Errorf("is a directory"))
	}
	if maxSize > 0 && info.Size() > maxSize {
		return openError(path, format, StageStat,
			fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), maxSize))
	}
	return nil
}

func openError(path string, format Format, stage string, err error) error {
	return &DocumentError{Path: path, Format: format, Stage: stage, Kind: ErrDocumentOpen, Err: err}
}
