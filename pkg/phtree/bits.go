package phtree

import "math/bits"

// hc computes the hypercube address of key at the given bit position: one
// bit per dimension, concatenated so that dimension 0 contributes the
// lowest-order bit of the result.
func hc(key Key, bit int) uint64 {
	var pos uint64

	for d, v := range key {
		pos |= ((v >> uint(bit)) & 1) << uint(d)
	}

	return pos
}

// conflictingBits returns the 1-based position of the most significant bit,
// restricted to bits set in mask, at which any dimension of a and b differ.
// It returns 0 if no such bit exists.
func conflictingBits(a, b Key, mask uint64) int {
	var diff uint64

	for d := range a {
		diff |= a[d] ^ b[d]
	}

	diff &= mask

	if diff == 0 {
		return 0
	}

	return 64 - bits.LeadingZeros64(diff)
}

// infixMask returns the bit mask covering every bit strictly above postLen:
// ~((1 << (postLen+1)) - 1), with postLen == 63 mapping to an empty mask
// (there are no bits above the sign bit).
func infixMask(postLen int) uint64 {
	if postLen >= 63 {
		return 0
	}

	return ^((uint64(1) << uint(postLen+1)) - 1)
}

// maskAllOnes returns a mask with every bit set, used when a new key is
// compared against a terminal entry's whole key (at any node), where no
// subnode infix restricts the comparison.
func maskAllOnes() uint64 {
	return ^uint64(0)
}
