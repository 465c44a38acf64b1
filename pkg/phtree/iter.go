package phtree

import (
	"iter"

	"github.com/flier/phtree/pkg/xiter"
)

// Iterator returns every (key, value) pair in the tree, in ascending
// hcPos order at each level (not a total key ordering). Equivalent to
// Query(nil, nil).
func (t *Tree[V]) Iterator() iter.Seq2[Key, V] {
	return t.Query(nil, nil)
}

// Query returns every (key, value) pair whose key falls within the closed
// rectangle [min, max]; a nil min or max means "unbounded" in every
// dimension.
func (t *Tree[V]) Query(min, max Key) iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		lo, hi := min, max

		if lo == nil {
			lo = make(Key, t.dim)
		}

		if hi == nil {
			hi = make(Key, t.dim)
			for i := range hi {
				hi[i] = maskAllOnes()
			}
		}

		if len(lo) != t.dim || len(hi) != t.dim {
			t.lastIterErr = ErrDimensionMismatch
			return
		}

		startMod := t.modCount
		t.lastIterErr = nil

		t.root.windowQuery(lo, hi, func(k Key, v V) bool {
			if t.modCount != startMod {
				t.lastIterErr = ErrConcurrentModification
				return false
			}

			return yield(k, v)
		})
	}
}

// QueryWhere is Query further narrowed by pred, composed from
// xiter.Filter2 rather than threading an extra predicate through the
// window-query descent itself.
func (t *Tree[V]) QueryWhere(min, max Key, pred func(Key, V) bool) iter.Seq2[Key, V] {
	return xiter.Filter2(t.Query(min, max), pred)
}

// MapQuery returns Query's (key, value) pairs with each value passed
// through fn, composed from xiter.MapValue.
func (t *Tree[V]) MapQuery(min, max Key, fn func(Key, V) V) iter.Seq2[Key, V] {
	return xiter.MapValue(t.Query(min, max), fn)
}

// Err returns the error recorded by the most recently run
// Iterator/Query/NearestNeighbor/RangeQuery range loop --
// ErrConcurrentModification if the tree was mutated while it ran,
// ErrDimensionMismatch if a query key had the wrong length (the loop then
// yields nothing), nil otherwise. A "check after the loop" pattern, since iter.Seq2 has no
// native error channel.
func (t *Tree[V]) Err() error { return t.lastIterErr }
