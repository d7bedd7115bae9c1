package simd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquaredL2Identical(t *testing.T) {
	v := []float32{1, 2, 3, 4}
	assert.Equal(t, float32(0), SquaredL2(v, v))
}

func TestSquaredL2Orthogonal(t *testing.T) {
	a := []float32{1, 0, 0, 0}
	b := []float32{0, 1, 0, 0}
	assert.Equal(t, float32(2), SquaredL2(a, b))
}

func TestSquaredL2Unaligned(t *testing.T) {
	// Exercises the scalar tail loop for lengths not a multiple of 4.
	a := []float32{1, 2, 3, 4, 5}
	b := []float32{1, 2, 3, 4, 6}
	assert.Equal(t, float32(1), SquaredL2(a, b))
}

func TestDot(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{4, 3, 2, 1}
	assert.Equal(t, float32(4+6+6+4), Dot(a, b))
}

func TestNorm(t *testing.T) {
	v := []float32{3, 4, 0, 0}
	assert.Equal(t, float32(5), Norm(v))
}

func TestCosineParallel(t *testing.T) {
	v := []float32{1, 2, 3, 4}
	got := Cosine(v, v)
	assert.InDelta(t, 1.0, float64(got), 1e-5)
}

func TestCosineOrthogonal(t *testing.T) {
	a := []float32{1, 0, 0, 0}
	b := []float32{0, 1, 0, 0}
	assert.InDelta(t, 0.0, float64(Cosine(a, b)), 1e-5)
}

func TestCosineZeroVectorIsWorstValue(t *testing.T) {
	// A zero vector must never win a comparison: the kernel reports the
	// mode's worst value (-1), not 0, which a real negative-cosine pair
	// could otherwise beat.
	zero := []float32{0, 0, 0, 0}
	v := []float32{1, 2, 3, 4}

	assert.Equal(t, float32(-1.0), Cosine(zero, v))
	assert.Equal(t, float32(-1.0), Cosine(v, zero))
	assert.Equal(t, float32(-1.0), Cosine(zero, zero))
}

func TestCosineOpposite(t *testing.T) {
	a := []float32{1, 0, 0, 0}
	b := []float32{-1, 0, 0, 0}
	assert.InDelta(t, -1.0, float64(Cosine(a, b)), 1e-5)
}

func TestCapabilityStringIsStable(t *testing.T) {
	s := CapabilityString()
	assert.NotEmpty(t, s)
	// CapabilityString must not panic or vary across calls within a process.
	assert.Equal(t, s, CapabilityString())
}

func TestSquaredL2NeverNegative(t *testing.T) {
	a := []float32{1.5, -2.5, 3.5, -4.5}
	b := []float32{-1.5, 2.5, -3.5, 4.5}
	assert.False(t, math.Signbit(float64(SquaredL2(a, b))))
}
