package phtree

import (
	"sort"

	"github.com/flier/phtree/pkg/res"
)

// bplusIndex is the B+-tree-over-ordered-leaves secondary index variant,
// used once a node's dimensionality reaches bplusDimThreshold: an array
// hypercube of size 2^dim is no longer affordable, and a single flat
// ordered leaf pays O(n) per insert/delete once fan-out grows into the
// hundreds or thousands.
type bplusIndex[V any] struct {
	root *bplusNode[V]
	n    int
}

// maxLeafN and maxInnerN bound leaf and inner page fan-out. A fixed
// midpoint is used rather than deriving it from dim, since this module has
// no persisted page size to size against.
const (
	maxLeafN  = 64
	maxInnerN = 128
)

// bplusNode is either an inner page (keys separate children) or a leaf
// page (keys parallel entries); leaf is false for inner pages.
type bplusNode[V any] struct {
	keys     []uint64
	children []*bplusNode[V] // len(children) == len(keys)+1 for inner pages
	entries  []Entry[V]      // len(entries) == len(keys) for leaf pages
	leaf     bool
}

func newBplusIndex[V any](dim int) *bplusIndex[V] {
	_ = dim

	return &bplusIndex[V]{root: &bplusNode[V]{leaf: true}}
}

func (b *bplusIndex[V]) count() int { return b.n }

// release is a no-op: a bplusIndex is a tree of individually allocated
// pages rather than one flat backing array, so there is nothing here that
// fits the array-pool contract; its pages are simply left for the garbage
// collector.
func (b *bplusIndex[V]) release(*pools[V]) {}

func (b *bplusIndex[V]) get(hcPos uint64) (*Entry[V], bool) {
	n := b.root
	for !n.leaf {
		n = n.children[n.childIndex(hcPos)]
	}

	i, ok := n.find(hcPos)
	if !ok {
		return nil, false
	}

	return &n.entries[i], true
}

func (b *bplusIndex[V]) getOrCreate(hcPos uint64) (*Entry[V], bool) {
	e, created, promoted := b.root.insert(hcPos)
	if promoted.IsOk() {
		split := promoted.Unwrap()
		b.root = &bplusNode[V]{
			keys:     []uint64{split.sep},
			children: []*bplusNode[V]{split.left, split.right},
		}
	}

	if created {
		b.n++
	}

	return e, created
}

func (b *bplusIndex[V]) remove(hcPos uint64) (Entry[V], bool) {
	old, ok := b.root.delete(hcPos)
	if !ok {
		return Entry[V]{}, false
	}

	b.n--

	if !b.root.leaf && len(b.root.keys) == 0 {
		b.root = b.root.children[0]
	}

	return old, true
}

func (b *bplusIndex[V]) firstValue() (Entry[V], bool) {
	var first Entry[V]
	found := false

	b.all(func(e *Entry[V]) bool {
		first, found = *e, true
		return false
	})

	return first, found
}

func (b *bplusIndex[V]) all(yield func(*Entry[V]) bool) {
	b.root.visit(func(n *bplusNode[V]) bool {
		for i := range n.entries {
			if !yield(&n.entries[i]) {
				return false
			}
		}

		return true
	})
}

func (b *bplusIndex[V]) masked(minMask, maxMask uint64, yield func(*Entry[V]) bool) {
	b.root.visit(func(n *bplusNode[V]) bool {
		for i := range n.entries {
			hcPos := n.keys[i]
			if (hcPos|minMask)&maxMask != hcPos {
				continue
			}

			if !yield(&n.entries[i]) {
				return false
			}
		}

		return true
	})
}

func (n *bplusNode[V]) find(hcPos uint64) (int, bool) {
	i := sort.Search(len(n.keys), func(i int) bool { return n.keys[i] >= hcPos })
	return i, i < len(n.keys) && n.keys[i] == hcPos
}

// childIndex returns which child subtree hcPos falls under in an inner page.
func (n *bplusNode[V]) childIndex(hcPos uint64) int {
	i := sort.Search(len(n.keys), func(i int) bool { return n.keys[i] > hcPos })
	return i
}

// visit walks every leaf page left to right, depth first, stopping early
// if cb returns false.
func (n *bplusNode[V]) visit(cb func(*bplusNode[V]) bool) bool {
	if n.leaf {
		return cb(n)
	}

	for _, c := range n.children {
		if !c.visit(cb) {
			return false
		}
	}

	return true
}

// splitResult carries the new separator key and the two halves produced
// by splitting a full page, using res.Result to signal "no split occurred"
// instead of a second bool return.
type splitResult[V any] struct {
	sep   uint64
	left  *bplusNode[V]
	right *bplusNode[V]
}

// insert descends to the correct leaf, inserts hcPos there (or returns the
// existing entry), and propagates a split upward as a res.Result, which is
// res.Err (no split) on the common path.
func (n *bplusNode[V]) insert(hcPos uint64) (e *Entry[V], created bool, promoted res.Result[splitResult[V]]) {
	if n.leaf {
		i, ok := n.find(hcPos)
		if ok {
			return &n.entries[i], false, res.Err[splitResult[V]](errNoSplit)
		}

		n.keys = append(n.keys, 0)
		copy(n.keys[i+1:], n.keys[i:])
		n.keys[i] = hcPos

		n.entries = append(n.entries, Entry[V]{})
		copy(n.entries[i+1:], n.entries[i:])
		n.entries[i] = Entry[V]{hcPos: hcPos}

		if len(n.keys) > maxLeafN {
			mid := len(n.keys) / 2
			split := n.splitLeaf()

			if i >= mid {
				return &split.right.entries[i-mid], true, res.Ok(split)
			}

			return &n.entries[i], true, res.Ok(split)
		}

		return &n.entries[i], true, res.Err[splitResult[V]](errNoSplit)
	}

	ci := n.childIndex(hcPos)
	e, created, childSplit := n.children[ci].insert(hcPos)

	if childSplit.IsErr() {
		return e, created, res.Err[splitResult[V]](errNoSplit)
	}

	split := childSplit.Unwrap()

	n.keys = append(n.keys, 0)
	copy(n.keys[ci+1:], n.keys[ci:])
	n.keys[ci] = split.sep

	n.children[ci] = split.left
	n.children = append(n.children, nil)
	copy(n.children[ci+2:], n.children[ci+1:])
	n.children[ci+1] = split.right

	if len(n.keys) > maxInnerN {
		return e, created, res.Ok(n.splitInner())
	}

	return e, created, res.Err[splitResult[V]](errNoSplit)
}

func (n *bplusNode[V]) splitLeaf() splitResult[V] {
	mid := len(n.keys) / 2

	right := &bplusNode[V]{
		leaf:    true,
		keys:    append([]uint64(nil), n.keys[mid:]...),
		entries: append([]Entry[V](nil), n.entries[mid:]...),
	}

	sep := n.keys[mid]

	n.keys = n.keys[:mid]
	n.entries = n.entries[:mid]

	return splitResult[V]{sep: sep, left: n, right: right}
}

func (n *bplusNode[V]) splitInner() splitResult[V] {
	mid := len(n.keys) / 2
	sep := n.keys[mid]

	right := &bplusNode[V]{
		keys:     append([]uint64(nil), n.keys[mid+1:]...),
		children: append([]*bplusNode[V](nil), n.children[mid+1:]...),
	}

	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]

	return splitResult[V]{sep: sep, left: n, right: right}
}

// delete descends to the correct leaf and removes hcPos. Pages are never
// merged with a sibling or rebalanced: an underfull or empty leaf stays in
// place, and inner pages keep their separator keys; count() still equals
// the number of occupied slots.
func (n *bplusNode[V]) delete(hcPos uint64) (Entry[V], bool) {
	if n.leaf {
		i, ok := n.find(hcPos)
		if !ok {
			return Entry[V]{}, false
		}

		old := n.entries[i]

		copy(n.keys[i:], n.keys[i+1:])
		n.keys = n.keys[:len(n.keys)-1]

		copy(n.entries[i:], n.entries[i+1:])
		n.entries = n.entries[:len(n.entries)-1]

		return old, true
	}

	ci := n.childIndex(hcPos)
	return n.children[ci].delete(hcPos)
}

var errNoSplit = noSplitError{}

type noSplitError struct{}

func (noSplitError) Error() string { return "phtree: no split occurred" }
