package table

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcached-io/vcached/ids"
)

func TestOpenRejectsInvalidMode(t *testing.T) {
	_, err := Open(3, Mode(99))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("L2NORM")
	require.NoError(t, err)
	assert.Equal(t, ModeL2, m)

	m, err = ParseMode("COSINE")
	require.NoError(t, err)
	assert.Equal(t, ModeCosine, m)

	_, err = ParseMode("bogus")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestInsertRejectsWrongDims(t *testing.T) {
	tb, err := Open(3, ModeL2)
	require.NoError(t, err)

	_, err = tb.Insert([]float32{1, 2})
	assert.ErrorIs(t, err, ErrInvalidDims)

	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Actual)
}

// L2 exact match with a tie-break between two equally distant candidates.
func TestL2ExactMatchAndTieBreak(t *testing.T) {
	tb, err := Open(3, ModeL2)
	require.NoError(t, err)

	i0, err := tb.Insert([]float32{1, 0, 0})
	require.NoError(t, err)
	i1, err := tb.Insert([]float32{0, 1, 0})
	require.NoError(t, err)
	i2, err := tb.Insert([]float32{0, 0, 1})
	require.NoError(t, err)

	best, err := tb.Search([]float32{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, MatchResult{ID: i2, Score: 0}, best)

	res, err := tb.SearchN([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, i0, res[0].ID)
	assert.InDelta(t, 0, res[0].Score, 1e-6)
	// Tie between i1 and i2 at distance 2.0: earlier-inserted (i1) wins.
	assert.Equal(t, i1, res[1].ID)
	assert.InDelta(t, 2.0, res[1].Score, 1e-6)
}

// Cosine mode ranks by similarity, best (closest to 1.0) first.
func TestCosineSearchAndSearchN(t *testing.T) {
	tb, err := Open(2, ModeCosine)
	require.NoError(t, err)

	i0, err := tb.Insert([]float32{1, 0})
	require.NoError(t, err)
	i1, err := tb.Insert([]float32{0, 1})
	require.NoError(t, err)
	i2, err := tb.Insert([]float32{1, 1})
	require.NoError(t, err)

	best, err := tb.Search([]float32{2, 2})
	require.NoError(t, err)
	assert.Equal(t, i2, best.ID)
	assert.InDelta(t, 1.0, best.Score, 1e-6)

	res, err := tb.SearchN([]float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, i0, res[0].ID)
	assert.InDelta(t, 1.0, res[0].Score, 1e-6)
	assert.Equal(t, i2, res[1].ID)
	assert.InDelta(t, 0.7071, float64(res[1].Score), 1e-3)
	assert.Equal(t, i1, res[2].ID)
	assert.InDelta(t, 0.0, res[2].Score, 1e-6)
}

// A deleted vector no longer wins a search, and the earlier-inserted
// candidate wins any resulting tie.
func TestDeleteRemovesVectorFromSearch(t *testing.T) {
	tb, err := Open(3, ModeL2)
	require.NoError(t, err)

	i0, _ := tb.Insert([]float32{1, 0, 0})
	i1, _ := tb.Insert([]float32{0, 1, 0})
	i2, _ := tb.Insert([]float32{0, 0, 1})

	require.NoError(t, tb.Delete(i2))
	// Idempotent: deleting twice still succeeds.
	require.NoError(t, tb.Delete(i2))

	best, err := tb.Search([]float32{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, i0, best.ID)
	assert.InDelta(t, 2.0, best.Score, 1e-6)

	_ = i1
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	tb, err := Open(3, ModeL2)
	require.NoError(t, err)

	assert.NoError(t, tb.Delete(ids.Encode(5, 10)))
	assert.NoError(t, tb.Delete(-1))
}

func TestSearchNPadsWithSentinelWhenFewerThanNLive(t *testing.T) {
	tb, err := Open(3, ModeL2)
	require.NoError(t, err)

	_, err = tb.Insert([]float32{1, 0, 0})
	require.NoError(t, err)

	res, err := tb.SearchN([]float32{1, 0, 0}, 4)
	require.NoError(t, err)
	require.Len(t, res, 4)
	assert.NotEqual(t, ids.None, res[0].ID)
	for _, r := range res[1:] {
		assert.Equal(t, ids.None, r.ID)
		assert.True(t, math.IsInf(float64(r.Score), 1))
	}
}

func TestEmptyTableSearchReturnsSentinel(t *testing.T) {
	tb, err := Open(3, ModeL2)
	require.NoError(t, err)

	best, err := tb.Search([]float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, ids.None, best.ID)
	assert.True(t, math.IsInf(float64(best.Score), 1))
}

// Invariant 10: padding invariance for D=3, D'=4.
func TestPaddingInvariance(t *testing.T) {
	tb, err := Open(3, ModeL2)
	require.NoError(t, err)

	id, err := tb.Insert([]float32{1, 2, 3})
	require.NoError(t, err)

	best, err := tb.Search([]float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, id, best.ID)
	assert.InDelta(t, 0, best.Score, 1e-6)

	cos, err := Open(3, ModeCosine)
	require.NoError(t, err)
	id2, err := cos.Insert([]float32{1, 2, 3})
	require.NoError(t, err)
	best2, err := cos.Search([]float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, id2, best2.ID)
	assert.InDelta(t, 1.0, best2.Score, 1e-5)
}

// Invariant 7: monotone filling.
func TestMonotoneFilling(t *testing.T) {
	tb, err := Open(4, ModeL2)
	require.NoError(t, err)

	n := tb.capPerBucket
	for i := 0; i < n+5; i++ {
		v := make([]float32, 4)
		v[0] = float32(i)
		_, err := tb.Insert(v)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, tb.curBucket)
	assert.True(t, tb.buckets[0].Full())
}

// Invariant 9: capacity.
func TestCapacityExhaustion(t *testing.T) {
	tb, err := Open(512, ModeL2) // dimsAligned=512, small-ish N to bound the test
	require.NoError(t, err)

	total := tb.capPerBucket * ids.MaxBuckets
	v := make([]float32, 512)

	var lastErr error
	for i := 0; i < total+1; i++ {
		_, lastErr = tb.Insert(v)
		if lastErr != nil {
			break
		}
	}

	assert.ErrorIs(t, lastErr, ErrCapacity)
}

// Invariant 1: ID uniqueness across a sequence of inserts.
func TestIDUniqueness(t *testing.T) {
	tb, err := Open(3, ModeL2)
	require.NoError(t, err)

	seen := make(map[int32]bool)
	for i := 0; i < 1000; i++ {
		v := []float32{float32(i), 0, 0}
		id, err := tb.Insert(v)
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

// Scenario E6 (partial): concurrent writer + readers don't race or crash.
func TestConcurrentInsertAndSearchN(t *testing.T) {
	tb, err := Open(8, ModeL2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			v := make([]float32, 8)
			v[0] = float32(i)
			_, _ = tb.Insert(v)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := make([]float32, 8)
			for i := 0; i < 500; i++ {
				res, err := tb.SearchN(q, 5)
				require.NoError(t, err)
				for _, m := range res {
					if m.ID != ids.None {
						assert.False(t, math.IsNaN(float64(m.Score)))
					}
				}
			}
		}()
	}

	wg.Wait()
}
