package table

import "github.com/vcached-io/vcached/ids"

// alignQuery returns q zero-padded out to dimsAligned, so the kernel can
// read D' elements from both operands uniformly. A padded copy is made only
// when len(q) differs from dimsAligned; otherwise q itself is returned.
func (t *Table) alignQuery(q []float32) []float32 {
	if len(q) == t.dimsAligned {
		return q
	}

	aligned := make([]float32, t.dimsAligned)
	copy(aligned, q)

	return aligned
}

// Search performs a top-1 brute-force scan over every live slot, under a
// read lock held for the whole traversal.
func (t *Table) Search(q []float32) (MatchResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return MatchResult{}, ErrClosed
	}
	if len(q) != t.dims {
		return MatchResult{}, &DimensionError{Expected: t.dims, Actual: len(q)}
	}

	aligned := t.alignQuery(q)
	k := t.kernel

	best := MatchResult{ID: ids.None, Score: k.worst}

	for b := 0; b <= t.curBucket; b++ {
		t.buckets[b].Each(func(slot int, v []float32) {
			x := k.compare(v, aligned)
			if k.isBetter(x, best.Score) {
				best = MatchResult{ID: ids.Encode(b, slot), Score: x}
			}
		})
	}

	return best, nil
}

// SearchN performs a top-N brute-force scan, maintaining a best-first
// result buffer of length n with a shift-insert update and strict
// tie-break semantics: equal scores never displace an earlier incumbent.
//
// This is deliberately not a container/heap-based top-K: a heap does not
// preserve "earlier-inserted wins ties" without extra bookkeeping, and this
// simple shift-insert array is cheaper at the sizes n is expected to take.
func (t *Table) SearchN(q []float32, n int) ([]MatchResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return nil, ErrClosed
	}
	if len(q) != t.dims {
		return nil, &DimensionError{Expected: t.dims, Actual: len(q)}
	}
	if n <= 0 {
		return nil, nil
	}

	aligned := t.alignQuery(q)
	k := t.kernel

	r := make([]MatchResult, n)
	for i := range r {
		r[i] = MatchResult{ID: ids.None, Score: k.worst}
	}

	for b := 0; b <= t.curBucket; b++ {
		t.buckets[b].Each(func(slot int, v []float32) {
			x := k.compare(v, aligned)

			// Find the smallest k such that x is better than r[k].Score.
			pos := -1
			for j := 0; j < n; j++ {
				if k.isBetter(x, r[j].Score) {
					pos = j
					break
				}
			}
			if pos < 0 {
				return
			}

			copy(r[pos+1:], r[pos:n-1])
			r[pos] = MatchResult{ID: ids.Encode(b, slot), Score: x}
		})
	}

	return r, nil
}
