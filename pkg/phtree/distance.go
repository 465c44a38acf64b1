package phtree

import "math"

// Distance is the strategy a NearestNeighbor or RangeQuery search measures
// proximity with. Dist computes the exact distance between two keys;
// MinDistToRegion computes a lower bound on the distance from center to
// any point that could lie under a subnode at postLen, given that
// subnode's parent entry's key regionKey as a representative point --
// used to prune or order the search without visiting the subnode.
type Distance interface {
	Dist(a, b Key) float64
	MinDistToRegion(center, regionKey Key, postLen int) float64
}

// Float64Distance is Euclidean distance over keys produced by
// Float64Preprocessor: it decodes each dimension back to float64 before
// measuring, so ordering matches real coordinate distance rather than raw
// uint64 magnitude.
type Float64Distance struct{}

func (Float64Distance) Dist(a, b Key) float64 {
	var sum float64

	for i := range a {
		d := decodeFloat64(a[i]) - decodeFloat64(b[i])
		sum += d * d
	}

	return math.Sqrt(sum)
}

// MinDistToRegion computes, per dimension, the distance from center to the
// nearest edge of the 2^(postLen+1)-wide aligned interval regionKey falls
// in, clamping to 0 when center already lies inside it; combined via the
// Euclidean norm this is a valid (possibly loose) lower bound for every
// point reachable under that subnode, since the subnode's hypercube is
// exactly that aligned interval in every dimension.
func (Float64Distance) MinDistToRegion(center, regionKey Key, postLen int) float64 {
	size := uint64(1) << uint(postLen+1)
	mask := ^(size - 1)

	var sum float64

	for i := range center {
		lo := regionKey[i] & mask
		hi := lo + size - 1

		c := decodeFloat64(center[i])
		loF := decodeFloat64(lo)
		hiF := decodeFloat64(hi)

		switch {
		case c < loF:
			d := loF - c
			sum += d * d
		case c > hiF:
			d := c - hiF
			sum += d * d
		}
	}

	return math.Sqrt(sum)
}
