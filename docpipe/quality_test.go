package docpipe

import "testing"

func TestPrintableRatio_Normal(t *testing.T) {
	// WHAT: Normal text has high printable ratio.
	// WHY: Validates baseline quality scoring, diacritics included.
	ratio := computePrintableRatio("Un corp cade liber de la înălțimea h. Să se afle viteza.")
	if ratio < 0.95 {
		t.Errorf("printable ratio = %f, want > 0.95", ratio)
	}
}

func TestPrintableRatio_Garbage(t *testing.T) {
	// WHAT: PUA and control chars produce low printable ratio.
	// WHY: Detects garbled PDF extraction (CIDFont without ToUnicode).
	garbage := "abcdefghi\x01\x02\x03\x04\x05"
	ratio := computePrintableRatio(garbage)
	if ratio >= 0.85 {
		t.Errorf("printable ratio = %f, want < 0.85", ratio)
	}
}

func TestPrintableRatio_Empty(t *testing.T) {
	if r := computePrintableRatio(""); r != 1.0 {
		t.Errorf("printable ratio of empty text = %f, want 1", r)
	}
}

func TestWordlikeRatio_SingleChar(t *testing.T) {
	// WHAT: Single-char tokens produce low wordlike ratio.
	// WHY: Detects broken character-by-character extraction.
	ratio := computeWordlikeRatio("a b c d e f g h i j k l")
	if ratio >= 0.40 {
		t.Errorf("wordlike ratio = %f, want < 0.40", ratio)
	}
}

func TestCountVisualRefs(t *testing.T) {
	// WHAT: Romanian and English figure/table references are counted.
	// WHY: Physics problems lean on figures that text extraction drops.
	text := "vezi figura 3, conform tabelul 2, see Figure 1"
	if count := countVisualRefs(text); count < 3 {
		t.Errorf("visual refs = %d, want >= 3", count)
	}
	if count := countVisualRefs("Un mobil pleacă din repaus."); count != 0 {
		t.Errorf("visual refs = %d, want 0", count)
	}
}

func TestMeasureQuality(t *testing.T) {
	q := measureQuality([]string{"abcd", "ăîșț"}, 4, true)
	if q.PageCount != 4 {
		t.Errorf("PageCount = %d, want 4", q.PageCount)
	}
	if q.CharsPerPage != 2 {
		t.Errorf("CharsPerPage = %f, want 2 (8 runes over 4 pages)", q.CharsPerPage)
	}
	if !q.NeedsOCR() {
		t.Error("expected NeedsOCR for sparse text with images")
	}
}

func TestMeasureQuality_ZeroPages(t *testing.T) {
	q := measureQuality(nil, 0, false)
	if q.CharsPerPage != 0 || q.NeedsOCR() {
		t.Errorf("unexpected quality for empty document: %+v", q)
	}
}

func TestNeedsOCR(t *testing.T) {
	// WHAT: Low chars per page + images = needs OCR.
	// WHY: Scanned exam sheets need OCR flagging.
	q := &ExtractionQuality{
		CharsPerPage:    30,
		HasImageStreams: true,
		PrintableRatio:  0.9,
	}
	if !q.NeedsOCR() {
		t.Error("expected NeedsOCR=true for low chars + images")
	}
}

func TestHasVisualGap(t *testing.T) {
	// WHAT: Visual refs + images = visual gap.
	// WHY: Text references figures but we only extract text.
	q := &ExtractionQuality{
		VisualRefCount:  2,
		HasImageStreams: true,
	}
	if !q.HasVisualGap() {
		t.Error("expected HasVisualGap=true for visual refs + images")
	}
}
