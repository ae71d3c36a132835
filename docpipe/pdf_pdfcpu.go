// CLAUDE:SUMMARY pdfcpu PDF engine — validated context, per-page content stream text operators, image XObject detection.
package docpipe

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

type pdfcpuEngine struct{}

func (pdfcpuEngine) Name() string { return EnginePDFCPU }

func (pdfcpuEngine) Open(path string) (pdfDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return &pdfcpuDocument{f: f, ctx: ctx}, nil
}

type pdfcpuDocument struct {
	f   *os.File
	ctx *model.Context
}

func (d *pdfcpuDocument) NumPages() int { return d.ctx.PageCount }

// PageText decodes the text operators of one page content stream.
// A page without content yields "".
func (d *pdfcpuDocument) PageText(index int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(d.ctx, index+1)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return extractTextFromStream(data), nil
}

func (d *pdfcpuDocument) HasImages() bool { return detectImageStreams(d.ctx) }

func (d *pdfcpuDocument) Close() error { return d.f.Close() }

// detectImageStreams checks if the PDF contains image XObjects.
func detectImageStreams(ctx *model.Context) bool {
	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
				return true
			}
		}
	}
	// Fallback: scan XRefTable for image subtype objects.
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}

// extractTextFromStream walks the operands and operators of a content
// stream and collects the strings shown by Tj, TJ, ' and ".
// Line structure is kept: ', " and T* start a new line, Td/TD add a space.
func extractTextFromStream(data []byte) string {
	var sb strings.Builder
	var operands []string // strings seen since the last operator

	newline := func() {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isPDFSpace(c):
			i++

		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}

		case c == '(':
			raw, next := scanLiteralString(data, i)
			operands = append(operands, decodePDFString(raw))
			i = next

		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2

		case c == '<':
			end := bytes.IndexByte(data[i:], '>')
			if end < 0 {
				i = len(data)
				break
			}
			operands = append(operands, decodeHexString(data[i+1:i+end]))
			i += end + 1

		case c == '[' || c == ']' || c == '{' || c == '}' || c == ')' || c == '>':
			i++

		case c == '/':
			i++
			for i < len(data) && !isPDFSpace(data[i]) && !isPDFDelimiter(data[i]) {
				i++
			}

		default:
			start := i
			for i < len(data) && !isPDFSpace(data[i]) && !isPDFDelimiter(data[i]) {
				i++
			}
			tok := string(data[start:i])
			if c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9') {
				continue // numeric operand
			}
			switch tok {
			case "Tj", "TJ":
				for _, o := range operands {
					sb.WriteString(o)
				}
			case "'", `"`:
				newline()
				for _, o := range operands {
					sb.WriteString(o)
				}
			case "Td", "TD":
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
			case "T*":
				sb.WriteByte('\n')
			case "ID":
				i = skipInlineImage(data, i)
			}
			operands = operands[:0]
		}
	}

	return cleanStreamText(sb.String())
}

func isPDFSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// scanLiteralString returns the raw bytes between the parentheses that
// open at data[start], honoring escapes and balanced nesting, and the
// index after the closing parenthesis.
func scanLiteralString(data []byte, start int) ([]byte, int) {
	depth := 0
	for i := start + 1; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return data[start+1 : i], i + 1
			}
			depth--
		}
	}
	return data[start+1:], len(data)
}

// decodeHexString decodes <48656C6C6F>; an odd final digit counts as 0.
func decodeHexString(raw []byte) string {
	var digits []byte
	for _, c := range raw {
		if !isPDFSpace(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		hi, ok1 := hexVal(digits[i])
		lo, ok2 := hexVal(digits[i+1])
		if !ok1 || !ok2 {
			return ""
		}
		out = append(out, hi<<4|lo)
	}
	return string(out)
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipInlineImage jumps past the binary data of BI ... ID <data> EI.
func skipInlineImage(data []byte, i int) int {
	for j := i + 1; j+2 <= len(data); j++ {
		if data[j] == 'E' && data[j+1] == 'I' && isPDFSpace(data[j-1]) &&
			(j+2 == len(data) || isPDFSpace(data[j+2])) {
			return j + 2
		}
	}
	return len(data)
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			// Octal escape (e.g. \040 for space).
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			val := int(raw[i] - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}

// cleanStreamText drops non-printable runes and collapses horizontal
// whitespace runs, keeping newlines for the normalizer.
func cleanStreamText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n':
			sb.WriteByte('\n')
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return sb.String()
}
