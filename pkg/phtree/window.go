package phtree

import "github.com/flier/phtree/internal/debug"

// windowQuery descends only into children whose hypercube address could
// overlap [min, max] given this node's postLen, verifying exactly once a
// terminal entry is reached (or, for a subnode, once its infix bits are
// known). Returns false if yield asked to stop, so callers can unwind the
// recursion without a sentinel error.
func (n *Node[V]) windowQuery(min, max Key, yield func(Key, V) bool) bool {
	minMask, maxMask := rangeBitsAt(min, max, n.postLen)

	cont := true

	n.index.masked(minMask, maxMask, func(e *Entry[V]) bool {
		if e.IsNode() {
			s := e.Node()

			if s.infixLen > 0 && !infixWithinWindow(e.kdKey, min, max, s.postLen, s.infixLen) {
				return true
			}

			debug.Log(nil, "window", "descend postLen=%d infixLen=%d", s.postLen, s.infixLen)

			if !s.windowQuery(min, max, yield) {
				cont = false
				return false
			}

			return true
		}

		if !keyInWindow(e.kdKey, min, max) {
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
