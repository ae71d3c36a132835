// CLAUDE:SUMMARY Defines Format, RawPage, PageRecord, and Document types for the docpipe extraction pipeline.
package docpipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format identifies a document type.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatLaTeX Format = "latex"

	// FormatAuto asks the pipeline to detect the format from the file extension.
	FormatAuto Format = "auto"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "latex", "tex":
		return FormatLaTeX, nil
	case "", "auto":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// RawPage is one page of extracted text before normalization.
type RawPage struct {
	Index int
	Text  string
}

// PageRecord is the unit of the corpus: one normalized page with its statistics.
type PageRecord struct {
	PageNumber             int      `json:"page_number"`
	CharCount              int      `json:"char_count"`
	WordCount              int      `json:"word_count"`
	SentenceCountRaw       int      `json:"sentence_count_raw"`
	TokenCountEstimate     float64  `json:"token_count_estimate"`
	Text                   string   `json:"text"`
	Sentences              []string `json:"sentences"`
	SentenceCountSegmented int      `json:"sentence_count_segmented"`

	Source string `json:"source,omitempty"`
	Format Format `json:"format,omitempty"`
}

// MarshalJSON writes unset sentences as [] rather than null. Text is not
// HTML-escaped ("a < b" stays as written).
func (r PageRecord) MarshalJSON() ([]byte, error) {
	type plain PageRecord
	if r.Sentences == nil {
		r.Sentences = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plain(r)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Document is the result of extracting pages from a file.
type Document struct {
	Path    string             `json:"path"`
	Format  Format             `json:"format"`
	Pages   []PageRecord       `json:"pages"`
	Quality *ExtractionQuality `json:"quality,omitempty"`
}
