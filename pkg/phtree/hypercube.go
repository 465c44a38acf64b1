package phtree

// arrayHypercube is the direct-address secondary index variant:
// values[hcPos] holds the Entry for that address directly, occupied[hcPos]
// distinguishes an empty slot from a populated one (an Entry's zero value
// is not itself distinguishable from "absent"), and n is the number of
// occupied slots.
type arrayHypercube[V any] struct {
	values   []Entry[V]
	occupied []bool
	n        int
}

func newArrayHypercube[V any](dim int) *arrayHypercube[V] {
	size := 1 << uint(dim)

	return &arrayHypercube[V]{
		values:   make([]Entry[V], size),
		occupied: make([]bool, size),
	}
}

func (a *arrayHypercube[V]) count() int { return a.n }

func (a *arrayHypercube[V]) get(hcPos uint64) (*Entry[V], bool) {
	if !a.occupied[hcPos] {
		return nil, false
	}

	return &a.values[hcPos], true
}

func (a *arrayHypercube[V]) getOrCreate(hcPos uint64) (*Entry[V], bool) {
	if a.occupied[hcPos] {
		return &a.values[hcPos], false
	}

	a.occupied[hcPos] = true
	a.values[hcPos] = Entry[V]{hcPos: hcPos}
	a.n++

	return &a.values[hcPos], true
}

func (a *arrayHypercube[V]) remove(hcPos uint64) (Entry[V], bool) {
	if !a.occupied[hcPos] {
		return Entry[V]{}, false
	}

	old := a.values[hcPos]
	a.values[hcPos].reset()
	a.occupied[hcPos] = false
	a.n--

	return old, true
}

func (a *arrayHypercube[V]) firstValue() (Entry[V], bool) {
	for i, occ := range a.occupied {
		if occ {
			return a.values[i], true
		}
	}

	return Entry[V]{}, false
}

func (a *arrayHypercube[V]) all(yield func(*Entry[V]) bool) {
	for i, occ := range a.occupied {
		if !occ {
			continue
		}

		if !yield(&a.values[i]) {
			return
		}
	}
}

func (a *arrayHypercube[V]) masked(minMask, maxMask uint64, yield func(*Entry[V]) bool) {
	// When only one quadrant matches (minMask == maxMask on every free bit)
	// the accepted hcPos is unique; short-circuit straight to that slot
	// instead of scanning the whole array.
	if minMask == maxMask {
		if a.occupied[minMask] {
			yield(&a.values[minMask])
		}

		return
	}

	for i, occ := range a.occupied {
		if !occ {
			continue
		}

		hcPos := uint64(i)
		if (hcPos|minMask)&maxMask != hcPos {
			continue
		}

		if !yield(&a.values[i]) {
			return
		}
	}
}

// release returns this hypercube's backing Entry array to p. occupied is a
// plain []bool with no pool of its own, so it is simply left for the
// garbage collector. The hypercube itself must not be used again
// afterwards.
func (a *arrayHypercube[V]) release(p *pools[V]) {
	p.putEntries(a.values)

	a.values = nil
	a.occupied = nil
}

// toOrderedLeaf rebuilds this array's contents as an ordered leaf, used
// when the node's occupancy drops to hypercubeDemoteThreshold or below.
func (a *arrayHypercube[V]) toOrderedLeaf(dim int) *orderedLeaf[V] {
	l := newOrderedLeaf[V](dim)

	for i, occ := range a.occupied {
		if !occ {
			continue
		}

		l.keys = append(l.keys, uint64(i))
		l.entries = append(l.entries, a.values[i])
	}

	return l
}
