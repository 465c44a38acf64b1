package phtree

import (
	"math/bits"

	"github.com/flier/phtree/internal/xsync"
)

// pools holds the per-tree object/array recyclers: nodes, []uint64 scratch
// buffers, and []Entry backing arrays. Entries themselves are never pooled
// individually -- every Entry in this module lives inline inside an
// orderedLeaf's or arrayHypercube's backing slice (entry.go's reset is
// only ever called as part of clearing a slot in place), so the thing
// worth recycling is that backing slice, not a per-Entry pointer. Pools
// are per-tree (never global) to avoid cross-tree leakage, and need no
// synchronization of their own since the core is single-writer.
//
// The node pool is built on internal/xsync.Pool[T] (a typed sync.Pool
// wrapper with New/Reset hooks); the array pools are a size-class
// free-list reimplemented over plain slices, since there is no byte arena
// to manage here (see DESIGN.md).
type pools[V any] struct {
	nodes   xsync.Pool[Node[V]]
	keys    arrayPool[uint64]
	entryAr arrayPool[Entry[V]]
}

func newPools[V any]() *pools[V] {
	p := &pools[V]{}

	p.nodes.New = func() *Node[V] { return &Node[V]{} }
	p.nodes.Reset = func(n *Node[V]) { *n = Node[V]{} }

	return p
}

// getNode returns a node ready to be initialized by the caller.
func (p *pools[V]) getNode() *Node[V] { return p.nodes.Get() }

// putNode returns a node to the pool once it has no more references; the
// node is zeroed by Reset before reuse, so stale entries cannot leak.
func (p *pools[V]) putNode(n *Node[V]) { p.nodes.Put(n) }

// getKeys returns a []uint64 scratch buffer of length n, contents
// uninitialized beyond being zeroed by the previous offer.
func (p *pools[V]) getKeys(n int) []uint64 { return p.keys.get(n) }

// putKeys returns a scratch buffer to the pool; the caller must not use it
// again.
func (p *pools[V]) putKeys(s []uint64) { p.keys.offer(s) }

// getEntries returns an []Entry[V] backing array of length n.
func (p *pools[V]) getEntries(n int) []Entry[V] { return p.entryAr.get(n) }

// putEntries returns an []Entry[V] backing array to the pool.
func (p *pools[V]) putEntries(s []Entry[V]) { p.entryAr.offer(s) }

// arrayPool recycles slices of T in power-of-two size classes: get(size)
// rounds up to the next power of two and pops a free slice of that
// capacity if one is available, otherwise allocates fresh; offer(x)
// zeroes the slice's contents and pushes it back onto its size class's
// free list, after which the caller must not reference it again.
type arrayPool[T any] struct {
	classes [][][]T
}

func sizeClassLog(n int) int {
	if n <= 1 {
		return 0
	}

	return bits.Len(uint(n - 1))
}

func (p *arrayPool[T]) get(n int) []T {
	log := sizeClassLog(n)

	if log < len(p.classes) {
		if free := p.classes[log]; len(free) > 0 {
			last := len(free) - 1
			s := free[last]
			p.classes[log] = free[:last]

			return s[:n]
		}
	}

	return make([]T, n, 1<<uint(log))
}

func (p *arrayPool[T]) offer(s []T) {
	if cap(s) == 0 {
		return
	}

	log := sizeClassLog(cap(s))

	var zero T
	full := s[:cap(s)]
	for i := range full {
		full[i] = zero
	}

	for log >= len(p.classes) {
		p.classes = append(p.classes, nil)
	}

	p.classes[log] = append(p.classes[log], full[:0])
}
