package phtree

// secondaryIndex is the capability set a Node's per-node index must
// provide: an ordered mapping from hcPos (an integer in [0, 2^k)) to an
// Entry. Two concrete variants satisfy it -- orderedLeaf and
// arrayHypercube -- plus bplusIndex for large k; the Node holds whichever
// is in play behind this interface, no inheritance required.
type secondaryIndex[V any] interface {
	// get returns the entry filed under hcPos, if any.
	get(hcPos uint64) (*Entry[V], bool)

	// getOrCreate returns the entry filed under hcPos, allocating a new
	// zero-value entry there if none exists yet. The returned pointer is
	// valid only until the next mutating call on this index.
	getOrCreate(hcPos uint64) (e *Entry[V], created bool)

	// remove deletes the entry filed under hcPos, returning its prior
	// contents.
	remove(hcPos uint64) (Entry[V], bool)

	// count returns the number of occupied hcPos slots.
	count() int

	// firstValue returns an arbitrary occupied entry, used by merge to find
	// the sole survivor of a node reduced to one entry.
	firstValue() (Entry[V], bool)

	// all visits every occupied entry in ascending hcPos order. Visiting
	// stops early if yield returns false.
	all(yield func(*Entry[V]) bool)

	// masked visits every occupied entry whose hcPos satisfies
	// (hcPos | minMask) & maxMask == hcPos, in ascending hcPos order.
	masked(minMask, maxMask uint64, yield func(*Entry[V]) bool)

	// release returns this index's backing storage to p. Called once, when
	// the owning Node is itself released (Tree.Clear, a merge emptying a
	// subnode, or a promotion/demotion swapping this index out for another
	// representation); the index must not be used again afterwards.
	release(p *pools[V])
}

// newSecondaryIndex selects an index representation for a node responsible
// for dim dimensions: ordered leaves for small hypercubes, a B+-tree of
// ordered leaves once 2^dim grows past the point an ordered leaf degrades,
// otherwise an array hypercube once a node's occupancy crosses
// hypercubePromoteThreshold (see Node.maybePromote). The ordered leaf's
// backing arrays are drawn from p's array pools rather than allocated
// fresh, so a node reused across a split/merge cycle doesn't pay for a new
// backing array every time.
func newSecondaryIndex[V any](p *pools[V], dim int) secondaryIndex[V] {
	if dim >= bplusDimThreshold {
		return newBplusIndex[V](dim)
	}

	l := newOrderedLeaf[V](dim)
	cap0 := cap(l.keys)
	l.keys = p.getKeys(cap0)[:0]
	l.entries = p.getEntries(cap0)[:0]

	return l
}

// bplusDimThreshold is the dimensionality past which a node's hypercube
// (2^dim possible hcPos values) is large enough that a flat ordered leaf's
// linear/binary-search cost and an array hypercube's memory cost both
// degrade.
const bplusDimThreshold = 12

// hypercubePromoteThreshold is the occupancy above which an ordered leaf is
// promoted to a direct-indexed array hypercube (see Node.maybePromote);
// hypercubeDemoteThreshold is the occupancy at or below which an array
// hypercube is demoted back to an ordered leaf (see Node.maybeDemote). The
// gap between the two avoids flapping back and forth on a node that
// hovers right at the boundary. 8 mirrors the ordered leaf's own
// linear/binary-search crossover point (see leaf.go).
const (
	hypercubePromoteThreshold = 8
	hypercubeDemoteThreshold  = hypercubePromoteThreshold / 2
)
