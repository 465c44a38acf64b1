package phtree

import "sort"

// orderedLeaf is the sorted-array secondary index variant: parallel
// arrays of hcPos and Entry, kept sorted by hcPos. Binary search locates
// entries above linearSearchThreshold; below that, a linear scan is
// faster (most nodes never grow past a handful of children).
type orderedLeaf[V any] struct {
	keys    []uint64
	entries []Entry[V]
}

// linearSearchThreshold is the entry count below which a linear scan beats
// a binary search.
const linearSearchThreshold = 8

func newOrderedLeaf[V any](dim int) *orderedLeaf[V] {
	cap := 4
	if dim <= 3 { // 2^dim <= 8
		cap = 2
	}

	return &orderedLeaf[V]{
		keys:    make([]uint64, 0, cap),
		entries: make([]Entry[V], 0, cap),
	}
}

func (l *orderedLeaf[V]) count() int { return len(l.keys) }

func (l *orderedLeaf[V]) find(hcPos uint64) (int, bool) {
	n := len(l.keys)

	if n < linearSearchThreshold {
		for i, k := range l.keys {
			if k == hcPos {
				return i, true
			}

			if k > hcPos {
				return i, false
			}
		}

		return n, false
	}

	i := sort.Search(n, func(i int) bool { return l.keys[i] >= hcPos })

	return i, i < n && l.keys[i] == hcPos
}

func (l *orderedLeaf[V]) get(hcPos uint64) (*Entry[V], bool) {
	i, ok := l.find(hcPos)
	if !ok {
		return nil, false
	}

	return &l.entries[i], true
}

func (l *orderedLeaf[V]) getOrCreate(hcPos uint64) (*Entry[V], bool) {
	i, ok := l.find(hcPos)
	if ok {
		return &l.entries[i], false
	}

	l.keys = append(l.keys, 0)
	copy(l.keys[i+1:], l.keys[i:])
	l.keys[i] = hcPos

	l.entries = append(l.entries, Entry[V]{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = Entry[V]{hcPos: hcPos}

	return &l.entries[i], true
}

func (l *orderedLeaf[V]) remove(hcPos uint64) (Entry[V], bool) {
	i, ok := l.find(hcPos)
	if !ok {
		return Entry[V]{}, false
	}

	old := l.entries[i]

	copy(l.keys[i:], l.keys[i+1:])
	l.keys = l.keys[:len(l.keys)-1]

	copy(l.entries[i:], l.entries[i+1:])
	l.entries[len(l.entries)-1].reset()
	l.entries = l.entries[:len(l.entries)-1]

	return old, true
}

func (l *orderedLeaf[V]) firstValue() (Entry[V], bool) {
	if len(l.entries) == 0 {
		return Entry[V]{}, false
	}

	return l.entries[0], true
}

func (l *orderedLeaf[V]) all(yield func(*Entry[V]) bool) {
	for i := range l.entries {
		if !yield(&l.entries[i]) {
			return
		}
	}
}

func (l *orderedLeaf[V]) masked(minMask, maxMask uint64, yield func(*Entry[V]) bool) {
	for i := range l.entries {
		hcPos := l.keys[i]
		if (hcPos|minMask)&maxMask != hcPos {
			continue
		}

		if !yield(&l.entries[i]) {
			return
		}
	}
}

// release returns this leaf's backing arrays to p. The leaf itself must
// not be used again afterwards.
func (l *orderedLeaf[V]) release(p *pools[V]) {
	p.putKeys(l.keys)
	p.putEntries(l.entries)

	l.keys = nil
	l.entries = nil
}

// toArrayHypercube rebuilds this leaf's contents as a direct-indexed array
// hypercube, used when the node promotes past hypercubePromoteThreshold.
func (l *orderedLeaf[V]) toArrayHypercube(dim int) *arrayHypercube[V] {
	a := newArrayHypercube[V](dim)

	for i := range l.entries {
		a.values[l.keys[i]] = l.entries[i]
		a.occupied[l.keys[i]] = true
	}

	a.n = len(l.entries)

	return a
}
