package phtree

import "math"

// Preprocessor maps application-level coordinates to and from Key's
// unsigned integer representation, so that unsigned comparison on the
// result orders the same way the original coordinates do. Declared as an
// interface only: the floating-point facade built on top of it (Entry
// wrappers, statistics, printing) is out of scope (§1 Non-goals) -- this
// is the one reference implementation needed to make that contract
// testable.
type Preprocessor interface {
	Pre(coords []float64, out Key)
	Post(key Key, out []float64)
}

// Float64Preprocessor maps IEEE-754 doubles to Key by flipping the sign
// bit of non-negative values and inverting every bit of negative ones, so
// that the resulting uint64 ordering matches float64 ordering (including
// across the positive/negative boundary). NaN is preprocessed like any
// other bit pattern; comparisons involving it are unspecified, same as
// float64 itself.
type Float64Preprocessor struct{}

func (Float64Preprocessor) Pre(coords []float64, out Key) {
	for i, c := range coords {
		out[i] = encodeFloat64(c)
	}
}

func (Float64Preprocessor) Post(key Key, out []float64) {
	for i, k := range key {
		out[i] = decodeFloat64(k)
	}
}

func encodeFloat64(f float64) uint64 {
	b := math.Float64bits(f)
	if b&(1<<63) != 0 {
		return ^b
	}

	return b | (1 << 63)
}

func decodeFloat64(u uint64) float64 {
	if u&(1<<63) != 0 {
		return math.Float64frombits(u &^ (1 << 63))
	}

	return math.Float64frombits(^u)
}
