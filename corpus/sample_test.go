package corpus

import (
	"math/rand/v2"
	"testing"

	"github.com/hazyhaar/pagecorpus/docpipe"
)

func TestSample(t *testing.T) {
	records := make([]docpipe.PageRecord, 10)
	for i := range records {
		records[i] = docpipe.NewPageRecord(i, "pagina")
	}
	rng := rand.New(rand.NewPCG(1, 2))

	got := Sample(records, 3, rng)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	seen := map[int]bool{}
	for _, r := range got {
		if seen[r.PageNumber] {
			t.Errorf("page %d sampled twice", r.PageNumber)
		}
		seen[r.PageNumber] = true
	}

	if n := len(Sample(records, 50, rng)); n != 10 {
		t.Errorf("oversized sample = %d, want 10", n)
	}
	if Sample(records, 0, rng) != nil || Sample(nil, 1, nil) != nil {
		t.Error("expected nil for empty sample")
	}
	if len(Sample(records, 1, nil)) != 1 {
		t.Error("global source sample failed")
	}
}
