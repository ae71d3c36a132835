// CLAUDE:SUMMARY ledongthuc/pdf engine — per-page plain text with font-aware decoding, image XObject detection.
package docpipe

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

type ledongthucEngine struct{}

func (ledongthucEngine) Name() string { return EngineLedongthuc }

// Open parses the xref table and trailer. The reader panics on some
// malformed inputs, which is reported as an open error. The file is
// closed on every failure path.
func (ledongthucEngine) Open(path string) (pdfDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := newLedongthucReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return &ledongthucDocument{f: f, r: r}, nil
}

func newLedongthucReader(f *os.File, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	return pdf.NewReader(f, size)
}

type ledongthucDocument struct {
	f *os.File
	r *pdf.Reader
}

func (d *ledongthucDocument) NumPages() int { return d.r.NumPage() }

func (d *ledongthucDocument) PageText(index int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed page: %v", r)
		}
	}()

	p := d.r.Page(index + 1)
	if p.V.IsNull() {
		return "", fmt.Errorf("missing page object")
	}
	// nil lets the reader resolve this page's own font encodings.
	return p.GetPlainText(nil)
}

func (d *ledongthucDocument) HasImages() (found bool) {
	defer func() {
		if recover() != nil {
			found = false
		}
	}()

	for i := 1; i <= d.r.NumPage(); i++ {
		p := d.r.Page(i)
		if p.V.IsNull() {
			continue
		}
		xobjects := p.Resources().Key("XObject")
		for _, name := range xobjects.Keys() {
			if xobjects.Key(name).Key("Subtype").Name() == "Image" {
				return true
			}
		}
	}
	return false
}

func (d *ledongthucDocument) Close() error { return d.f.Close() }
