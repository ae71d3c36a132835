// CLAUDE:SUMMARY Sentinel errors and typed DocumentError/ParseError for docpipe extraction failures.
package docpipe

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentOpen covers missing, unreadable, corrupt, and oversized documents.
	ErrDocumentOpen = errors.New("docpipe: cannot open document")

	// ErrParse is returned when markup cannot be parsed into a node tree.
	ErrParse = errors.New("docpipe: malformed markup")

	ErrUnsupportedFormat = errors.New("docpipe: unsupported format")
)

// Extraction stages reported in DocumentError.
const (
	StageStat    = "stat"
	StageOpen    = "open"
	StageRead    = "read"
	StageDecode  = "decode"
	StageParse   = "parse"
	StageExtract = "extract"
)

// DocumentError describes a per-document extraction failure.
// errors.Is matches both Kind (ErrDocumentOpen or ErrParse) and the cause.
type DocumentError struct {
	Path   string
	Format Format
	Stage  string
	Kind   error
	Err    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("docpipe: %s %s (%s): %v", e.Stage, e.Path, e.Format, e.Err)
}

func (e *DocumentError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// ParseError locates a markup error in the source.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Msg)
}
