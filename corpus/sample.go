package corpus

import (
	"math/rand/v2"

	"github.com/hazyhaar/pagecorpus/docpipe"
)

// Sample returns up to n distinct records picked at random, for inspection.
// A nil rng uses the global source.
func Sample(records []docpipe.PageRecord, n int, rng *rand.Rand) []docpipe.PageRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}
	perm := rand.Perm
	if rng != nil {
		perm = rng.Perm
	}
	out := make([]docpipe.PageRecord, 0, n)
	for _, i := range perm(len(records))[:n] {
		out = append(out, records[i])
	}
	return out
}
