// Package table implements the index core: a bounded array of buckets, the
// kernel dispatch for L2 and cosine similarity, and the single reader-writer
// lock discipline that protects the whole structure.
//
// # Concurrency
//
// One sync.RWMutex guards the entire table -- all buckets, the bucket array,
// and curBucket. Insert and Delete hold the write lock for the whole
// operation; Search and SearchN hold the read lock for the whole scan. No
// operation releases and reacquires the lock partway through, so a search
// either observes an insert completely or not at all.
package table

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/vcached-io/vcached/bucket"
	"github.com/vcached-io/vcached/ids"
	"github.com/vcached-io/vcached/internal/simd"
)

// Mode selects the similarity measure a table scores vectors with.
type Mode int

const (
	// ModeL2 scores by squared Euclidean distance; lower is better.
	ModeL2 Mode = iota
	// ModeCosine scores by cosine similarity; higher is better.
	ModeCosine
)

// String returns the wire name of the mode ("L2NORM" or "COSINE").
func (m Mode) String() string {
	switch m {
	case ModeL2:
		return "L2NORM"
	case ModeCosine:
		return "COSINE"
	default:
		return "UNKNOWN"
	}
}

// ParseMode parses the wire names accepted by open(dims, mode).
func ParseMode(s string) (Mode, error) {
	switch s {
	case "L2NORM":
		return ModeL2, nil
	case "COSINE":
		return ModeCosine, nil
	default:
		return 0, ErrInvalidMode
	}
}

var (
	// ErrInvalidMode is returned by Open for an unrecognized mode name.
	ErrInvalidMode = errors.New("table: invalid mode")
	// ErrOutOfMemory is returned when bucket.Create fails, which happens
	// when one aligned vector does not fit in a bucket's slab.
	ErrOutOfMemory = errors.New("table: out of memory")
	// ErrCapacity is returned by Insert once every bucket is full.
	ErrCapacity = errors.New("table: capacity exceeded")
	// ErrInvalidDims is returned when a vector's length doesn't match the
	// table's configured dimension. Insert, Search, and SearchN wrap it in
	// a *DimensionError carrying the expected and actual lengths.
	ErrInvalidDims = errors.New("table: invalid vector dimension")
	// ErrClosed is returned by any operation on a table after Close.
	ErrClosed = errors.New("table: closed")
)

// DimensionError reports a vector or query whose length doesn't match the
// table's configured dimension. It unwraps to ErrInvalidDims.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("table: invalid vector dimension: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionError) Unwrap() error { return ErrInvalidDims }

// kernel bundles the pure similarity function for a mode with its ordering
// semantics, selected once at Open.
type kernel struct {
	compare  func(a, b []float32) float32
	isBetter func(x, y float32) bool
	worst    float32
}

func kernelFor(mode Mode) kernel {
	switch mode {
	case ModeCosine:
		return kernel{
			compare:  simd.Cosine,
			isBetter: func(x, y float32) bool { return x > y },
			worst:    -1.0,
		}
	default:
		return kernel{
			compare:  simd.SquaredL2,
			isBetter: func(x, y float32) bool { return x < y },
			worst:    float32(math.Inf(1)),
		}
	}
}

// MatchResult pairs an encoded vector ID with its similarity score. A "no
// result" entry has ID == ids.None and Score == the mode's worst value.
type MatchResult struct {
	ID    int32
	Score float32
}

// Table is the index core: a bounded array of buckets guarded by one
// reader-writer lock.
type Table struct {
	mu sync.RWMutex

	dims        int
	dimsAligned int
	capPerBucket int
	mode        Mode
	kernel      kernel

	buckets   []*bucket.Bucket
	curBucket int

	closed bool
}

// Open creates a table for vectors of the given dimension and similarity
// mode, with a single initial bucket.
func Open(dims int, mode Mode) (*Table, error) {
	if mode != ModeL2 && mode != ModeCosine {
		return nil, ErrInvalidMode
	}
	if dims <= 0 {
		return nil, ErrInvalidDims
	}

	dimsAligned := (dims + 3) &^ 3

	b0, err := bucket.Create(dimsAligned)
	if err != nil {
		return nil, ErrOutOfMemory
	}

	return &Table{
		dims:         dims,
		dimsAligned:  dimsAligned,
		capPerBucket: b0.Capacity(),
		mode:         mode,
		kernel:       kernelFor(mode),
		buckets:      []*bucket.Bucket{b0},
		curBucket:    0,
	}, nil
}

// Dims returns D, the table's configured (unaligned) vector dimension.
func (t *Table) Dims() int { return t.dims }

// Mode returns the table's similarity mode.
func (t *Table) Mode() Mode { return t.mode }

// Insert appends v to the current bucket, allocating a new bucket if the
// current one is full, and returns the encoded ID assigned to it.
func (t *Table) Insert(v []float32) (int32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ids.None, ErrClosed
	}
	if len(v) != t.dims {
		return ids.None, &DimensionError{Expected: t.dims, Actual: len(v)}
	}

	cur := t.buckets[t.curBucket]
	if cur.Full() {
		if t.curBucket+1 == ids.MaxBuckets {
			return ids.None, ErrCapacity
		}

		nb, err := bucket.Create(t.dimsAligned)
		if err != nil {
			return ids.None, ErrOutOfMemory
		}

		t.buckets = append(t.buckets, nb)
		t.curBucket++
		cur = nb
	}

	slot := cur.Append(v)

	return ids.Encode(t.curBucket, slot), nil
}

// Delete marks the slot named by id empty. Unknown or already-deleted IDs
// are a silent no-op.
func (t *Table) Delete(id int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	b, s := ids.Decode(id)
	if b < 0 || b >= len(t.buckets) || s < 0 {
		return nil
	}

	t.buckets[b].MarkDeleted(s)

	return nil
}

// Close releases the table's buckets. The table must not be used
// afterwards.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buckets = nil
	t.closed = true

	return nil
}
