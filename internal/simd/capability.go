// Package simd implements the kernels used to score one vector against
// another, plus the CPU feature probe that reports what acceleration the
// host could offer for them.
//
// The kernels themselves (see kernels.go) are a portable, 4-wide unrolled
// Go implementation -- the dimension alignment contract they're written
// against (D' = ceil(D/4)*4) is what lets a future assembly kernel replace
// them without changing a single caller. CapabilityString exists so the
// database's open log line can report what the host supports without the
// kernel body actually branching on it.
package simd

import "runtime"

// Feature flags, set by the platform-specific init() files.
var (
	hasASIMD   bool // ARM64 NEON
	hasSVE2    bool // ARM64 SVE2
	hasAVX2    bool // x86-64 AVX2 + FMA
	hasAVX512F bool // x86-64 AVX-512 Foundation
)

// CapabilityString summarizes the SIMD features detected on this host, for
// diagnostic logging when a database is opened (vcached.Open). It never
// changes which code path runs.
func CapabilityString() string {
	switch runtime.GOARCH {
	case "arm64":
		if hasSVE2 {
			return "arm64/sve2"
		}
		if hasASIMD {
			return "arm64/neon"
		}
	case "amd64":
		if hasAVX512F {
			return "amd64/avx512"
		}
		if hasAVX2 {
			return "amd64/avx2"
		}
	}

	return "generic"
}
