package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/pagecorpus/docpipe"
	"github.com/hazyhaar/pagecorpus/segment"
)

// fakeExtractor serves canned documents by path.
type fakeExtractor struct {
	pages map[string][]string
	errs  map[string]error
	calls []string
}

func (f *fakeExtractor) Extract(_ context.Context, path string, format docpipe.Format) (*docpipe.Document, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	texts, ok := f.pages[path]
	if !ok {
		return nil, fmt.Errorf("unexpected path %s", path)
	}
	doc := &docpipe.Document{Path: path, Format: format, Pages: []docpipe.PageRecord{}}
	for i, t := range texts {
		rec := docpipe.NewPageRecord(i, t)
		rec.Source = path
		rec.Format = format
		doc.Pages = append(doc.Pages, rec)
	}
	return doc, nil
}

// fakeSegmenter splits on ". " and fails on texts containing "BAD".
type fakeSegmenter struct{ fatal bool }

func (s fakeSegmenter) Annotate(rec *docpipe.PageRecord) error {
	if strings.Contains(rec.Text, "BAD") {
		rec.Sentences = []string{}
		rec.SentenceCountSegmented = 0
		if s.fatal {
			return segment.ErrClosed
		}
		return fmt.Errorf("%w: test", segment.ErrSegmentation)
	}
	rec.Sentences = []string{}
	if rec.Text != "" {
		rec.Sentences = strings.Split(rec.Text, ". ")
	}
	rec.SentenceCountSegmented = len(rec.Sentences)
	return nil
}

type recordingObserver struct{ outcomes []DocumentOutcome }

func (o *recordingObserver) DocumentDone(_ context.Context, out DocumentOutcome) {
	o.outcomes = append(o.outcomes, out)
}

func TestBuild_MixedRun(t *testing.T) {
	// WHAT: PDF and LaTeX documents interleave in discovery order, pages in page order.
	// WHY: Corpus order is part of the output contract; a failed document leaves no pages.
	failing := &docpipe.DocumentError{Path: "c.pdf", Format: docpipe.FormatPDF, Stage: docpipe.StageExtract,
		Kind: docpipe.ErrDocumentOpen, Err: errors.New("page 1: broken")}
	ext := &fakeExtractor{
		pages: map[string][]string{
			"a.pdf": {"A0. first", "A1"},
			"b.tex": {"latex body"},
			"d.pdf": {},
		},
		errs: map[string]error{"c.pdf": failing},
	}
	obs := &recordingObserver{}
	b := NewBuilder(ext, fakeSegmenter{}, WithObserver(obs))

	sources := []Source{
		{Path: "a.pdf", Format: docpipe.FormatPDF},
		{Path: "b.tex", Format: docpipe.FormatLaTeX},
		{Path: "c.pdf", Format: docpipe.FormatPDF},
		{Path: "d.pdf", Format: docpipe.FormatPDF},
	}
	res, err := b.Build(context.Background(), sources)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var got []string
	for _, r := range res.Records {
		got = append(got, fmt.Sprintf("%s:%d", r.Source, r.PageNumber))
	}
	if want := "a.pdf:0,a.pdf:1,b.tex:0"; strings.Join(got, ",") != want {
		t.Errorf("order = %s, want %s", strings.Join(got, ","), want)
	}

	if len(res.Outcomes) != 4 {
		t.Fatalf("outcomes = %d, want 4", len(res.Outcomes))
	}
	pageSum := 0
	for _, o := range res.Outcomes {
		pageSum += o.Pages
	}
	if pageSum != len(res.Records) {
		t.Errorf("sum of pages %d != records %d", pageSum, len(res.Records))
	}

	c := res.Outcomes[2]
	if c.Status != StatusSkipped || c.Stage != docpipe.StageExtract || !errors.Is(c.Err, docpipe.ErrDocumentOpen) {
		t.Errorf("c.pdf outcome = %+v", c)
	}
	d := res.Outcomes[3]
	if d.Status != StatusOK || d.Pages != 0 {
		t.Errorf("empty d.pdf must be ok with 0 pages, got %+v", d)
	}
	if len(res.Skipped()) != 1 {
		t.Errorf("skipped = %d, want 1", len(res.Skipped()))
	}
	if len(obs.outcomes) != 4 {
		t.Errorf("observer saw %d outcomes, want 4", len(obs.outcomes))
	}
	if res.Outcomes[0].Sentences != 3 {
		t.Errorf("a.pdf sentences = %d, want 3", res.Outcomes[0].Sentences)
	}
	for _, r := range res.Records {
		if r.SentenceCountSegmented != len(r.Sentences) {
			t.Errorf("%s:%d count %d != len %d", r.Source, r.PageNumber, r.SentenceCountSegmented, len(r.Sentences))
		}
	}
}

func TestBuild_SegmentationFailureKeepsPage(t *testing.T) {
	ext := &fakeExtractor{pages: map[string][]string{"x.pdf": {"ok page", "BAD page", "also ok"}}}
	b := NewBuilder(ext, fakeSegmenter{})

	res, err := b.Build(context.Background(), []Source{{Path: "x.pdf", Format: docpipe.FormatPDF}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(res.Records))
	}
	bad := res.Records[1]
	if bad.Sentences == nil || len(bad.Sentences) != 0 || bad.SentenceCountSegmented != 0 {
		t.Errorf("failed page = %#v", bad)
	}
	if res.Outcomes[0].SegmentationFailures != 1 || res.SegmentationFailures() != 1 {
		t.Errorf("segmentation failures = %d", res.Outcomes[0].SegmentationFailures)
	}
}

func TestBuild_UnexpectedSegmenterErrorAborts(t *testing.T) {
	ext := &fakeExtractor{pages: map[string][]string{"x.pdf": {"BAD"}}}
	b := NewBuilder(ext, fakeSegmenter{fatal: true})

	if _, err := b.Build(context.Background(), []Source{{Path: "x.pdf", Format: docpipe.FormatPDF}}); !errors.Is(err, segment.ErrClosed) {
		t.Errorf("expected ErrClosed to abort the run, got %v", err)
	}
}

func TestBuild_UnknownErrorAborts(t *testing.T) {
	ext := &fakeExtractor{errs: map[string]error{"x.pdf": errors.New("disk on fire")}}
	b := NewBuilder(ext, fakeSegmenter{})

	if _, err := b.Build(context.Background(), []Source{{Path: "x.pdf"}}); err == nil {
		t.Error("expected error")
	}
}

func TestBuild_Canceled(t *testing.T) {
	ext := &fakeExtractor{pages: map[string][]string{"a.pdf": {"x"}}}
	b := NewBuilder(ext, fakeSegmenter{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx, []Source{{Path: "a.pdf"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(ext.calls) != 0 {
		t.Errorf("extractor called %d times after cancel", len(ext.calls))
	}
}

func TestBuild_RealPipeline(t *testing.T) {
	// WHAT: End to end over real LaTeX files with the Romanian segmenter.
	// WHY: Wiring check for docpipe + segment + builder; malformed files are skipped.
	dir := t.TempDir()
	good := filepath.Join(dir, "1.tex")
	bad := filepath.Join(dir, "2.tex")
	empty := filepath.Join(dir, "3.tex")
	os.WriteFile(good, []byte("\\begin{document}\nUn corp cade liber. Viteza crește.\n\\end{document}\n"), 0644)
	os.WriteFile(bad, []byte("\\begin{document}\n{nu se închide\n"), 0644)
	os.WriteFile(empty, nil, 0644)

	pipe, err := docpipe.New(docpipe.Config{})
	if err != nil {
		t.Fatal(err)
	}
	seg, err := segment.New("ro")
	if err != nil {
		t.Fatal(err)
	}
	defer seg.Close()

	sources, err := Discover([]SourceSpec{{Glob: filepath.Join(dir, "*.tex"), Format: "auto"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := NewBuilder(pipe, seg).Build(context.Background(), sources)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	if res.Records[0].SentenceCountSegmented != 2 {
		t.Errorf("sentences = %q", res.Records[0].Sentences)
	}
	empt := res.Records[1]
	if empt.CharCount != 0 || empt.WordCount != 1 || empt.Sentences == nil || len(empt.Sentences) != 0 {
		t.Errorf("empty record = %+v", empt)
	}
	if sk := res.Skipped(); len(sk) != 1 || sk[0].Path != bad || sk[0].Stage != docpipe.StageParse {
		t.Errorf("skipped = %+v", sk)
	}
}
