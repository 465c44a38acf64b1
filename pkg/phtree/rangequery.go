package phtree

import (
	"iter"

	"github.com/flier/phtree/internal/debug"
)

// RangeQuery returns every entry within radius of center under dist,
// found by pruning whole subnodes whose MinDistToRegion already exceeds
// radius and exactly filtering terminal entries by Dist.
func (t *Tree[V]) RangeQuery(radius float64, center Key, dist Distance) iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		if len(center) != t.dim {
			t.lastIterErr = ErrDimensionMismatch
			return
		}

		startMod := t.modCount
		t.lastIterErr = nil

		t.root.rangeQuery(radius, center, dist, func(k Key, v V) bool {
			if t.modCount != startMod {
				t.lastIterErr = ErrConcurrentModification
				return false
			}

			return yield(k, v)
		})
	}
}

func (n *Node[V]) rangeQuery(radius float64, center Key, dist Distance, yield func(Key, V) bool) bool {
	cont := true

	n.index.all(func(e *Entry[V]) bool {
		if e.IsNode() {
			s := e.Node()

			if dist.MinDistToRegion(center, e.kdKey, s.postLen) > radius {
				return true
			}

			debug.Log(nil, "rangequery", "descend postLen=%d radius=%f", s.postLen, radius)

			if !s.rangeQuery(radius, center, dist, yield) {
				cont = false
				return false
			}

			return true
		}

		if dist.Dist(center, e.kdKey) > radius {
			return true
		}

		if !yield(e.kdKey, e.Value()) {
			cont = false
			return false
		}

		return true
	})

	return cont
}
