package phtree

import (
	"github.com/flier/phtree/internal/debug"
	"github.com/flier/phtree/pkg/opt"
)

// Node is a PH-tree node. postLen is the bit position this node
// discriminates on; every key reachable through this node agrees with its
// parent entry's kdKey on the infixLen bits directly above postLen. dim is
// the tree's dimensionality, needed to size the secondary index. The root
// node always has postLen == 63, infixLen == 0.
type Node[V any] struct {
	dim      int
	postLen  int
	infixLen int
	index    secondaryIndex[V]
}

// newNode allocates (from the pool) and initializes a node responsible for
// dim dimensions at the given post/infix lengths.
func newNode[V any](p *pools[V], dim, postLen, infixLen int) *Node[V] {
	n := p.getNode()
	n.dim = dim
	n.postLen = postLen
	n.infixLen = infixLen
	n.index = newSecondaryIndex[V](p, dim)

	return n
}

// infixLenFor computes the infixLen a node at childPostLen must carry when
// its parent is at parentPostLen: the number of bits between this node's
// postLen and its parent's postLen, minus one.
func infixLenFor(parentPostLen, childPostLen int) int {
	return parentPostLen - childPostLen - 1
}

// count returns the number of entries held directly by this node.
func (n *Node[V]) count() int { return n.index.count() }

// maybePromote swaps this node's ordered leaf for a direct-indexed array
// hypercube once occupancy crosses hypercubePromoteThreshold, trading the
// leaf's O(log n) lookup for the hypercube's O(1) one. B+-tree-indexed
// nodes (dim >= bplusDimThreshold) never promote: a 2^dim array would be
// far too large to be worthwhile at that dimensionality.
func (n *Node[V]) maybePromote(p *pools[V]) {
	l, ok := n.index.(*orderedLeaf[V])
	if !ok || l.count() <= hypercubePromoteThreshold {
		return
	}

	a := l.toArrayHypercube(n.dim)
	l.release(p)
	n.index = a

	debug.Log(nil, "promote", "postLen=%d count=%d -> arrayHypercube", n.postLen, a.count())
}

// maybeDemote swaps this node's array hypercube back for an ordered leaf
// once occupancy drops to hypercubeDemoteThreshold or below, so a node
// that shrinks back down doesn't keep paying the hypercube's O(2^dim)
// memory cost.
func (n *Node[V]) maybeDemote(p *pools[V]) {
	a, ok := n.index.(*arrayHypercube[V])
	if !ok || a.count() > hypercubeDemoteThreshold {
		return
	}

	l := a.toOrderedLeaf(n.dim)
	a.release(p)
	n.index = l

	debug.Log(nil, "demote", "postLen=%d count=%d -> orderedLeaf", n.postLen, l.count())
}

// get looks up key, descending through subnodes as needed.
func (n *Node[V]) get(key Key) (V, bool) {
	hcPos := hc(key, n.postLen)

	e, ok := n.index.get(hcPos)
	if !ok {
		var zero V
		return zero, false
	}

	if e.IsNode() {
		s := e.Node()

		if s.infixLen > 0 && conflictingBits(key, e.kdKey, infixMask(s.postLen)) != 0 {
			var zero V
			return zero, false
		}

		return s.get(key)
	}

	if !e.kdKey.Equal(key) {
		var zero V
		return zero, false
	}

	return e.Value(), true
}

// insert adds or replaces key's value directly under this node, splitting
// off a new intermediate node when key conflicts with an existing entry
// or subnode infix. It returns the replaced value (None if this was a
// fresh key) and whether a brand new entry was created (as opposed to a
// value replacement).
func (n *Node[V]) insert(p *pools[V], key Key, value V) (opt.Option[V], bool) {
	hcPos := hc(key, n.postLen)

	e, created := n.index.getOrCreate(hcPos)
	if created {
		e.setValue(key, value)
		n.maybePromote(p)

		return opt.None[V](), true
	}

	if e.IsNode() {
		s := e.Node()

		if s.infixLen == 0 {
			return s.insert(p, key, value)
		}

		mcb := conflictingBits(key, e.kdKey, infixMask(s.postLen))
		if mcb == 0 {
			return s.insert(p, key, value)
		}

		n.splitAt(p, e, key, value, mcb)

		return opt.None[V](), true
	}

	if n.postLen == 0 {
		old := e.Value()
		e.setValue(key, value)

		return opt.Some(old), false
	}

	mcb := conflictingBits(key, e.kdKey, maskAllOnes())
	if mcb == 0 {
		old := e.Value()
		e.setValue(key, value)

		return opt.Some(old), false
	}

	n.splitAt(p, e, key, value, mcb)

	return opt.None[V](), true
}

// splitAt introduces a new intermediate node at bit mcb-1, holding the
// existing entry e's contents (recomputing its infixLen if it was itself
// a subnode) and the new (key, value) pair, then rewires e to point at
// the new node.
func (n *Node[V]) splitAt(p *pools[V], e *Entry[V], newKey Key, newValue V, mcb int) {
	newPostLen := mcb - 1
	newInfixLen := n.postLen - mcb

	debug.Assert(newPostLen >= 0 && newPostLen < n.postLen, "invalid split: postLen=%d mcb=%d", n.postLen, mcb)
	debug.Log(nil, "split", "postLen=%d mcb=%d newPostLen=%d newInfixLen=%d", n.postLen, mcb, newPostLen, newInfixLen)

	sub := newNode[V](p, n.dim, newPostLen, newInfixLen)

	oldKey := e.kdKey

	if e.IsNode() {
		oldSub := e.Node()
		oldSub.infixLen = infixLenFor(newPostLen, oldSub.postLen)

		slot, _ := sub.index.getOrCreate(hc(oldKey, newPostLen))
		slot.setNode(oldKey, oldSub)
	} else {
		oldValue := e.Value()

		slot, _ := sub.index.getOrCreate(hc(oldKey, newPostLen))
		slot.setValue(oldKey, oldValue)
	}

	newSlot, _ := sub.index.getOrCreate(hc(newKey, newPostLen))
	newSlot.setValue(newKey, newValue)

	debug.Assert(sub.count() == 2, "split must produce exactly 2 entries, got %d", sub.count())

	e.setNode(oldKey, sub)
}

// remove locates the entry addressed by key, deletes it if the key
// matches, and merges this node's child into the parent entry if the
// child is left with exactly one entry.
func (n *Node[V]) remove(p *pools[V], key Key) (opt.Option[V], bool) {
	hcPos := hc(key, n.postLen)

	e, ok := n.index.get(hcPos)
	if !ok {
		return opt.None[V](), false
	}

	if e.IsNode() {
		s := e.Node()

		if s.infixLen > 0 && conflictingBits(key, e.kdKey, infixMask(s.postLen)) != 0 {
			return opt.None[V](), false
		}

		val, removed := s.remove(p, key)
		if removed {
			n.mergeIfNeeded(p, e, s)
		}

		return val, removed
	}

	if !e.kdKey.Equal(key) {
		return opt.None[V](), false
	}

	old := e.Value()
	n.index.remove(hcPos)
	n.maybeDemote(p)

	return opt.Some(old), true
}

// mergeIfNeeded hoists s's sole surviving entry into the parent's entry e
// and returns s to the pool, if the child node s has dropped to a single
// entry after a removal. s is never the root (it was reached by
// descending through e), so the "not the root" precondition is
// automatically satisfied.
func (n *Node[V]) mergeIfNeeded(p *pools[V], e *Entry[V], s *Node[V]) {
	if s.count() != 1 {
		return
	}

	survivor, ok := s.index.firstValue()
	debug.Assert(ok, "merge: sole surviving entry missing")
	debug.Log(nil, "merge", "postLen=%d survivor=%v", s.postLen, survivor.kdKey)

	if survivor.IsNode() {
		c := survivor.Node()
		c.infixLen += 1 + s.infixLen
		e.setNode(survivor.kdKey, c)
	} else {
		e.setValue(survivor.kdKey, survivor.Value())
	}

	s.index.release(p)
	p.putNode(s)
}

// compute is a unified insert/update/remove driven by fn(key,
// currentValue). A None result removes (or leaves absent) the key; a Some
// result inserts or replaces it. Split and merge follow the same policy
// as insert/remove.
func (n *Node[V]) compute(p *pools[V], key Key, fn func(Key, opt.Option[V]) opt.Option[V]) (opt.Option[V], bool) {
	hcPos := hc(key, n.postLen)

	e, created := n.index.getOrCreate(hcPos)
	if created {
		newVal := fn(key, opt.None[V]())
		if newVal.IsNone() {
			n.index.remove(hcPos)
			return opt.None[V](), false
		}

		e.setValue(key, newVal.Unwrap())
		n.maybePromote(p)

		return newVal, true
	}

	if e.IsNode() {
		s := e.Node()

		if s.infixLen > 0 {
			mcb := conflictingBits(key, e.kdKey, infixMask(s.postLen))
			if mcb != 0 {
				newVal := fn(key, opt.None[V]())
				if newVal.IsNone() {
					return opt.None[V](), false
				}

				n.splitAt(p, e, key, newVal.Unwrap(), mcb)

				return newVal, true
			}
		}

		result, changed := s.compute(p, key, fn)
		if changed {
			n.mergeIfNeeded(p, e, s)
		}

		return result, changed
	}

	same := n.postLen == 0 || conflictingBits(key, e.kdKey, maskAllOnes()) == 0

	if same {
		cur := opt.Some(e.Value())

		newVal := fn(key, cur)
		if newVal.IsNone() {
			n.index.remove(hcPos)
			n.maybeDemote(p)

			return opt.None[V](), true
		}

		e.setValue(key, newVal.Unwrap())

		return newVal, true
	}

	newVal := fn(key, opt.None[V]())
	if newVal.IsNone() {
		return opt.None[V](), false
	}

	mcb := conflictingBits(key, e.kdKey, maskAllOnes())
	n.splitAt(p, e, key, newVal.Unwrap(), mcb)

	return newVal, true
}

// release returns this node, and every subnode reachable from it, to the
// pool. Used by Tree.Clear.
func (n *Node[V]) release(p *pools[V]) {
	n.index.all(func(e *Entry[V]) bool {
		if e.IsNode() {
			e.Node().release(p)
		}

		return true
	})

	n.index.release(p)
	p.putNode(n)
}
