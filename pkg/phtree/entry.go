package phtree

import "github.com/flier/phtree/pkg/either"

// Entry is the fixed-shape record stored by a Node's secondary index:
// the hypercube address it was filed under, the full k-dimensional key
// (acting as the infix carrier when child is a subnode), and a
// discriminated child that is either a terminal value or a subnode.
//
// The child's tag is carried by either.Either rather than a type switch
// on any, per the "polymorphic child" design note: Left is the terminal
// value, Right is the subnode.
type Entry[V any] struct {
	hcPos uint64
	kdKey Key
	child either.Either[V, *Node[V]]
}

func valueEntry[V any](hcPos uint64, key Key, value V) Entry[V] {
	return Entry[V]{hcPos: hcPos, kdKey: key, child: either.Left[V, *Node[V]](value)}
}

func nodeEntry[V any](hcPos uint64, key Key, node *Node[V]) Entry[V] {
	return Entry[V]{hcPos: hcPos, kdKey: key, child: either.Right[V, *Node[V]](node)}
}

// IsNode reports whether this entry's child is a subnode rather than a
// terminal value.
func (e *Entry[V]) IsNode() bool { return e.child.HasRight() }

// Node returns the subnode this entry points to; callers must have
// checked IsNode first.
func (e *Entry[V]) Node() *Node[V] { return e.child.UnwrapRight() }

// Value returns the terminal value this entry carries; callers must have
// checked !IsNode first.
func (e *Entry[V]) Value() V { return e.child.UnwrapLeft() }

// setNode rewrites the entry in place to point at a subnode, keeping the
// kdKey as the new subnode's infix carrier.
func (e *Entry[V]) setNode(key Key, node *Node[V]) {
	e.kdKey = key
	e.child = either.Right[V, *Node[V]](node)
}

// setValue rewrites the entry in place to hold a terminal value.
func (e *Entry[V]) setValue(key Key, value V) {
	e.kdKey = key
	e.child = either.Left[V, *Node[V]](value)
}

func (e *Entry[V]) reset() {
	e.hcPos = 0
	e.kdKey = nil
	e.child = either.Empty[V, *Node[V]]()
}
