package phtree

import "errors"

// ErrDimensionMismatch is returned whenever a Key's length does not match
// the dimensionality a Tree was created with.
var ErrDimensionMismatch = errors.New("phtree: key dimension does not match tree dimension")

// ErrConcurrentModification is returned by a query iterator when it detects
// that the Tree was mutated since the iterator was created, per the
// single-writer modification-counter contract (see Tree.modCount).
var ErrConcurrentModification = errors.New("phtree: concurrent modification detected")
