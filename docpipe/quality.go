// CLAUDE:SUMMARY Extraction quality scoring — flags documents that likely need OCR or lost their figures. Diagnostic only.
// CLAUDE:EXPORTS ExtractionQuality, NeedsOCR, HasVisualGap, measureQuality
package docpipe

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractionQuality captures metrics about text extraction quality.
// It never changes the page records it was computed from.
type ExtractionQuality struct {
	PageCount       int     `json:"page_count"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	WordlikeRatio   float64 `json:"wordlike_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
	VisualRefCount  int     `json:"visual_ref_count"`
}

// NeedsOCR returns true if the document is likely scanned: little text
// next to images, or a lot of garbage runes.
func (q *ExtractionQuality) NeedsOCR() bool {
	return (q.CharsPerPage < 50 && q.HasImageStreams) || q.PrintableRatio < 0.85
}

// HasVisualGap returns true if the text references figures/tables and the document has images.
func (q *ExtractionQuality) HasVisualGap() bool {
	return q.VisualRefCount > 0 && q.HasImageStreams
}

// measureQuality scores the normalized page texts of one document.
func measureQuality(pages []string, pageCount int, hasImages bool) *ExtractionQuality {
	full := strings.Join(pages, "\n")

	totalChars := 0
	for _, p := range pages {
		totalChars += utf8.RuneCountInString(p)
	}
	var charsPerPage float64
	if pageCount > 0 {
		charsPerPage = float64(totalChars) / float64(pageCount)
	}

	return &ExtractionQuality{
		PageCount:       pageCount,
		CharsPerPage:    charsPerPage,
		PrintableRatio:  computePrintableRatio(full),
		WordlikeRatio:   computeWordlikeRatio(full),
		HasImageStreams: hasImages,
		VisualRefCount:  countVisualRefs(full),
	}
}

// computePrintableRatio returns the ratio of printable characters in text.
// Excludes PUA U+E000-U+F8FF, control chars < U+0020 (except \n\r\t), U+FFFD.
func computePrintableRatio(text string) float64 {
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	switch {
	case r >= 0xE000 && r <= 0xF8FF: // private use area
		return true
	case r == utf8.RuneError:
		return true
	case r < 0x0020 && r != '\n' && r != '\r' && r != '\t':
		return true
	}
	return false
}

// computeWordlikeRatio returns the ratio of word-like tokens (length 2-15) to total tokens.
func computeWordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		n := utf8.RuneCountInString(f)
		if n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}

var visualRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(vezi|conform|see|refer\s+to|voir|cf\.?)\s+(la\s+)?(figura|fig\.?|tabelul|tabel|schema|graficul|diagrama|figure|table|graph|diagram)\s*\d`),
	regexp.MustCompile(`(?i)\b(figura|figure|fig\.|tabelul|table|tableau)\s+\d+`),
}

// countVisualRefs counts references to figures, tables, and diagrams in text.
func countVisualRefs(text string) int {
	count := 0
	for _, pat := range visualRefPatterns {
		count += len(pat.FindAllString(text, -1))
	}
	return count
}
