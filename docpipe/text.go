package docpipe

import "strings"

// Normalize turns raw extracted text into the single-line form stored in
// page records: every newline becomes one space, then surrounding
// whitespace is trimmed. Nothing else is touched (tabs, repeated spaces,
// carriage returns inside the text survive).
func Normalize(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "\n", " "))
}
