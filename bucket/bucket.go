// Package bucket implements the fixed-capacity arena slab that backs one
// bucket of a table: a single contiguous, zero-initialized block of
// float32 storage holding a bounded number of SIMD-aligned vector slots.
//
// # Memory layout
//
// A Bucket allocates its slab eagerly, sized for its full slot capacity, and
// never grows. Slots are assigned monotonically by Append and never reused
// once deleted; MarkDeleted only zeros the slot's memory and clears its
// liveness bit.
package bucket

import "errors"

// SlabBytes is the fixed byte size of every bucket's backing slab.
const SlabBytes = 1 << 20 // 1 MiB

// ErrOutOfMemory is returned by Create when the slab cannot hold even one
// vector of the requested aligned dimension (dimsAligned*4 > SlabBytes). An
// actual allocation failure is not reported through it: Go's allocator
// panics rather than returning nil on failure.
var ErrOutOfMemory = errors.New("bucket: out of memory")

// Bucket owns one slab of aligned vector storage and tracks, per slot,
// whether it currently holds a live vector.
type Bucket struct {
	dimsAligned int
	capacity    int // N: floor(SlabBytes / (dimsAligned*4))
	slab        []float32
	live        []bool
	highWater   int
}

// Create allocates a new Bucket sized for vectors of aligned dimension
// dimsAligned. Capacity (N) is floor(SlabBytes / (dimsAligned*4)).
func Create(dimsAligned int) (*Bucket, error) {
	if dimsAligned <= 0 {
		panic("bucket: dimsAligned must be positive")
	}

	capacity := SlabBytes / (dimsAligned * 4)
	if capacity <= 0 {
		return nil, ErrOutOfMemory
	}

	return &Bucket{
		dimsAligned: dimsAligned,
		capacity:    capacity,
		slab:        make([]float32, capacity*dimsAligned),
		live:        make([]bool, capacity),
	}, nil
}

// Capacity returns N, the fixed number of slots this bucket can hold.
func (b *Bucket) Capacity() int {
	return b.capacity
}

// HighWater returns the count of slots ever assigned in this bucket.
func (b *Bucket) HighWater() int {
	return b.highWater
}

// Full reports whether every slot has been assigned at least once.
func (b *Bucket) Full() bool {
	return b.highWater == b.capacity
}

// Append copies the first D floats of v into the next free slot (zeroing
// the [D, dimsAligned) tail), advances the high-water mark, and returns the
// assigned slot index.
//
// Append panics if the bucket is full; callers (the table) must check Full
// first.
func (b *Bucket) Append(v []float32) int {
	if b.highWater >= b.capacity {
		panic("bucket: append on full bucket")
	}

	slot := b.highWater
	off := slot * b.dimsAligned

	region := b.slab[off : off+b.dimsAligned]
	n := copy(region, v)
	for i := n; i < b.dimsAligned; i++ {
		region[i] = 0
	}

	b.live[slot] = true
	b.highWater++

	return slot
}

// Vector returns the aligned, zero-padded vector stored at slot, and
// whether that slot currently holds a live vector.
func (b *Bucket) Vector(slot int) ([]float32, bool) {
	if slot < 0 || slot >= b.highWater || !b.live[slot] {
		return nil, false
	}

	off := slot * b.dimsAligned

	return b.slab[off : off+b.dimsAligned], true
}

// MarkDeleted zeros the slot's memory and clears its liveness bit. A
// no-op if the slot is out of range or already deleted.
func (b *Bucket) MarkDeleted(slot int) {
	if slot < 0 || slot >= b.highWater || !b.live[slot] {
		return
	}

	off := slot * b.dimsAligned
	region := b.slab[off : off+b.dimsAligned]
	for i := range region {
		region[i] = 0
	}

	b.live[slot] = false
}

// Each calls fn for every live slot in ascending slot order, passing the
// slot index and its aligned vector. fn must not retain the slice beyond
// the call.
func (b *Bucket) Each(fn func(slot int, v []float32)) {
	for s := 0; s < b.highWater; s++ {
		if !b.live[s] {
			continue
		}

		off := s * b.dimsAligned
		fn(s, b.slab[off:off+b.dimsAligned])
	}
}
