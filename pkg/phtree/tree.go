package phtree

import "github.com/flier/phtree/pkg/opt"

// Tree is a k-dimensional point/hypercube index. Every Key handled by a
// Tree must have the same length as dim. The core is single-writer:
// modCount is a plain counter, bumped on every mutating call, checked by
// query iterators to detect concurrent modification -- no atomics, no
// locking.
type Tree[V any] struct {
	dim      int
	size     int64
	root     *Node[V]
	pools    *pools[V]
	modCount uint64

	// lastIterErr records ErrConcurrentModification or ErrDimensionMismatch
	// from the most recently run Iterator/Query/NearestNeighbor/RangeQuery
	// range loop, a
	// "check after the loop" pattern, since iter.Seq2 has no native error
	// channel.
	lastIterErr error
}

// treeConfig holds the tunables a Tree can be constructed with.
type treeConfig struct {
	preallocNodes int
}

// Option configures a Tree at construction time, using small typed
// functional options rather than a config struct.
type Option func(*treeConfig)

// WithPreallocatedNodes warms the tree's node pool with n nodes up front,
// trading a larger initial allocation for fewer pool misses during a bulk
// load.
func WithPreallocatedNodes(n int) Option {
	return func(c *treeConfig) { c.preallocNodes = n }
}

// New creates an empty Tree over dim-dimensional keys.
func New[V any](dim int, opts ...Option) *Tree[V] {
	var cfg treeConfig
	for _, o := range opts {
		o(&cfg)
	}

	p := newPools[V]()
	warm := make([]*Node[V], cfg.preallocNodes)
	for i := range warm {
		warm[i] = p.getNode()
	}

	for _, n := range warm {
		p.putNode(n)
	}

	return &Tree[V]{
		dim:   dim,
		pools: p,
		root:  newNode[V](p, dim, 63, 0),
	}
}

// Size returns the number of keys currently stored.
func (t *Tree[V]) Size() int64 { return t.size }

func (t *Tree[V]) checkDim(key Key) error {
	if len(key) != t.dim {
		return ErrDimensionMismatch
	}

	return nil
}

// Put inserts or replaces the value stored under key, returning whatever
// value was previously associated with it.
func (t *Tree[V]) Put(key Key, value V) (opt.Option[V], error) {
	if err := t.checkDim(key); err != nil {
		return opt.None[V](), err
	}

	old, created := t.root.insert(t.pools, key, value)
	if created {
		t.size++
	}

	t.modCount++

	return old, nil
}

// PutIfAbsent inserts value under key only if key is not already present,
// returning the existing value if one was found.
func (t *Tree[V]) PutIfAbsent(key Key, value V) (opt.Option[V], error) {
	if err := t.checkDim(key); err != nil {
		return opt.None[V](), err
	}

	var existing opt.Option[V]

	_, changed := t.root.compute(t.pools, key, func(_ Key, cur opt.Option[V]) opt.Option[V] {
		if cur.IsSome() {
			existing = cur
			return cur
		}

		return opt.Some(value)
	})

	if changed && existing.IsNone() {
		t.size++
		t.modCount++

		return opt.None[V](), nil
	}

	return existing, nil
}

// Get returns the value stored under key, if any.
func (t *Tree[V]) Get(key Key) (opt.Option[V], error) {
	if err := t.checkDim(key); err != nil {
		return opt.None[V](), err
	}

	v, ok := t.root.get(key)
	if !ok {
		return opt.None[V](), nil
	}

	return opt.Some(v), nil
}

// Contains reports whether key is present.
func (t *Tree[V]) Contains(key Key) (bool, error) {
	if err := t.checkDim(key); err != nil {
		return false, err
	}

	_, ok := t.root.get(key)

	return ok, nil
}

// Remove deletes key, returning its associated value if it was present.
func (t *Tree[V]) Remove(key Key) (opt.Option[V], error) {
	if err := t.checkDim(key); err != nil {
		return opt.None[V](), err
	}

	old, removed := t.root.remove(t.pools, key)
	if removed {
		t.size--
		t.modCount++
	}

	return old, nil
}

// RemoveIf deletes key only if its current value equals value under eq.
func (t *Tree[V]) RemoveIf(key Key, value V, eq func(V, V) bool) (bool, error) {
	if err := t.checkDim(key); err != nil {
		return false, err
	}

	var removed bool

	t.root.compute(t.pools, key, func(_ Key, cur opt.Option[V]) opt.Option[V] {
		if cur.IsNone() || !eq(cur.Unwrap(), value) {
			return cur
		}

		removed = true

		return opt.None[V]()
	})

	if removed {
		t.size--
		t.modCount++
	}

	return removed, nil
}

// Replace assigns value to key only if key is already present, returning
// the value it held before.
func (t *Tree[V]) Replace(key Key, value V) (opt.Option[V], error) {
	if err := t.checkDim(key); err != nil {
		return opt.None[V](), err
	}

	var prior opt.Option[V]

	t.root.compute(t.pools, key, func(_ Key, cur opt.Option[V]) opt.Option[V] {
		if cur.IsNone() {
			return cur
		}

		prior = cur

		return opt.Some(value)
	})

	if prior.IsSome() {
		t.modCount++
	}

	return prior, nil
}

// ReplaceIf assigns new to key only if its current value equals old under eq.
func (t *Tree[V]) ReplaceIf(key Key, old, new V, eq func(V, V) bool) (bool, error) {
	if err := t.checkDim(key); err != nil {
		return false, err
	}

	var replaced bool

	t.root.compute(t.pools, key, func(_ Key, cur opt.Option[V]) opt.Option[V] {
		if cur.IsNone() || !eq(cur.Unwrap(), old) {
			return cur
		}

		replaced = true

		return opt.Some(new)
	})

	if replaced {
		t.modCount++
	}

	return replaced, nil
}

// Update moves the value stored under oldKey to newKey, returning it. This
// is implemented as a remove followed by an insert rather than an in-place
// infix rewrite: simpler to reason about correctly, and externally
// indistinguishable -- get(newKey) afterwards returns what get(oldKey)
// returned before, and get(oldKey) returns nothing.
func (t *Tree[V]) Update(oldKey, newKey Key) (opt.Option[V], error) {
	if err := t.checkDim(oldKey); err != nil {
		return opt.None[V](), err
	}

	if err := t.checkDim(newKey); err != nil {
		return opt.None[V](), err
	}

	old, removed := t.root.remove(t.pools, oldKey)
	if !removed {
		return opt.None[V](), nil
	}

	t.size--

	_, created := t.root.insert(t.pools, newKey, old.Unwrap())
	if created {
		t.size++
	}

	t.modCount++

	return old, nil
}

// Compute applies fn to key's current value (None if absent) and installs
// whatever fn returns: None removes (or leaves absent), Some inserts or
// replaces.
func (t *Tree[V]) Compute(key Key, fn func(Key, opt.Option[V]) opt.Option[V]) (opt.Option[V], error) {
	if err := t.checkDim(key); err != nil {
		return opt.None[V](), err
	}

	wasPresent := false

	result, changed := t.root.compute(t.pools, key, func(k Key, cur opt.Option[V]) opt.Option[V] {
		wasPresent = cur.IsSome()
		return fn(k, cur)
	})

	if changed {
		t.modCount++

		switch {
		case !wasPresent && result.IsSome():
			t.size++
		case wasPresent && result.IsNone():
			t.size--
		}
	}

	return result, nil
}

// ComputeIfAbsent installs fn(key)'s result only if key is not already
// present, returning the (possibly newly installed) value.
func (t *Tree[V]) ComputeIfAbsent(key Key, fn func(Key) V) (opt.Option[V], error) {
	if err := t.checkDim(key); err != nil {
		return opt.None[V](), err
	}

	inserted := false

	result, _ := t.root.compute(t.pools, key, func(k Key, cur opt.Option[V]) opt.Option[V] {
		if cur.IsSome() {
			return cur
		}

		inserted = true

		return opt.Some(fn(k))
	})

	if inserted {
		t.size++
		t.modCount++
	}

	return result, nil
}

// ComputeIfPresent applies fn to key's current value only if key is
// present; fn returning None removes it. Returns the resulting value
// (None if removed or if key was absent to begin with).
func (t *Tree[V]) ComputeIfPresent(key Key, fn func(Key, V) opt.Option[V]) (opt.Option[V], error) {
	if err := t.checkDim(key); err != nil {
		return opt.None[V](), err
	}

	present := false

	result, changed := t.root.compute(t.pools, key, func(k Key, cur opt.Option[V]) opt.Option[V] {
		if cur.IsNone() {
			return cur
		}

		present = true

		return fn(k, cur.Unwrap())
	})

	if present && changed {
		t.modCount++

		if result.IsNone() {
			t.size--
		}
	}

	return result, nil
}

// Clear empties the tree, returning every node to the pool.
func (t *Tree[V]) Clear() {
	t.root.release(t.pools)
	t.root = newNode[V](t.pools, t.dim, 63, 0)
	t.size = 0
	t.modCount++
}
