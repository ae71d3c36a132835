// CLAUDE:SUMMARY Page statistics (char/word/sentence/token heuristics) and PageRecord construction.
// CLAUDE:EXPORTS Stats, ComputeStats, NewPageRecord
package docpipe

import (
	"strings"
	"unicode/utf8"
)

// Stats holds the structural counts of a normalized text.
type Stats struct {
	CharCount          int
	WordCount          int
	SentenceCountRaw   int
	TokenCountEstimate float64
}

// ComputeStats applies the corpus heuristics to text. Do not refine them,
// existing corpora were counted the same way:
//   - chars: Unicode code points
//   - words: pieces of a split on single spaces, empty pieces included
//     (so "" counts as one word and "a  b" as three)
//   - sentences: occurrences of ". " plus one
//   - tokens: chars / 4
func ComputeStats(text string) Stats {
	chars := utf8.RuneCountInString(text)
	return Stats{
		CharCount:          chars,
		WordCount:          strings.Count(text, " ") + 1,
		SentenceCountRaw:   strings.Count(text, ". ") + 1,
		TokenCountEstimate: float64(chars) / 4,
	}
}

// NewPageRecord normalizes raw page text and annotates it with statistics.
// Sentences are left unset for the segmenter.
func NewPageRecord(pageNumber int, raw string) PageRecord {
	text := Normalize(raw)
	st := ComputeStats(text)
	return PageRecord{
		PageNumber:         pageNumber,
		CharCount:          st.CharCount,
		WordCount:          st.WordCount,
		SentenceCountRaw:   st.SentenceCountRaw,
		TokenCountEstimate: st.TokenCountEstimate,
		Text:               text,
	}
}
