package phtree

import (
	"container/heap"
	"iter"
	"math"

	"github.com/flier/phtree/internal/debug"
	"github.com/flier/phtree/pkg/tuple"
)

// knnItem is a k-NN frontier element: the entry's lower-bound distance to
// the search center, its kdKey, and the entry itself (so the consumer can
// tell a subnode apart from a terminal candidate without a second lookup).
// Modeled on pkg/tuple.Tuple3 rather than an ad hoc struct.
type knnItem[V any] = tuple.Tuple3[float64, Key, *Entry[V]]

// knnHeap is a container/heap min-heap over knnItem, ordered by lower
// bound distance.
type knnHeap[V any] []knnItem[V]

func (h knnHeap[V]) Len() int           { return len(h) }
func (h knnHeap[V]) Less(i, j int) bool { return h[i].V0 < h[j].V0 }
func (h knnHeap[V]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *knnHeap[V]) Push(x any) { *h = append(*h, x.(knnItem[V])) }

func (h *knnHeap[V]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}

// NearestNeighbor runs an incremental k-nearest-neighbor search: a priority
// frontier ordered by each entry's lower-bound distance to center, expanded
// node by node, so terminal entries are popped in non-decreasing distance
// order. Once k entries have been yielded, popping continues only while the
// frontier's next lower bound still matches the k-th found distance, so a
// tie at the boundary yields more than k entries rather than arbitrarily
// dropping one of the tied candidates.
func (t *Tree[V]) NearestNeighbor(k int, center Key, dist Distance) iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		if len(center) != t.dim {
			t.lastIterErr = ErrDimensionMismatch
			return
		}

		if k <= 0 {
			return
		}

		startMod := t.modCount
		t.lastIterErr = nil

		h := &knnHeap[V]{}
		heap.Init(h)
		pushFrontier(h, t.root, center, dist)

		found := 0
		kthDist := math.Inf(1)

		for h.Len() > 0 {
			if t.modCount != startMod {
				t.lastIterErr = ErrConcurrentModification
				return
			}

			if found >= k && (*h)[0].V0 > kthDist {
				return
			}

			item := heap.Pop(h).(knnItem[V])
			e := item.V2

			if e.IsNode() {
				debug.Log(nil, "knn", "expand node postLen=%d lb=%f found=%d/%d", e.Node().postLen, item.V0, found, k)
				pushFrontier(h, e.Node(), center, dist)

				continue
			}

			found++
			if found == k {
				kthDist = item.V0
			}

			if !yield(e.kdKey, e.Value()) {
				return
			}
		}
	}
}

func pushFrontier[V any](h *knnHeap[V], n *Node[V], center Key, dist Distance) {
	n.index.all(func(e *Entry[V]) bool {
		var lb float64
		if e.IsNode() {
			lb = dist.MinDistToRegion(center, e.kdKey, e.Node().postLen)
		} else {
			lb = dist.Dist(center, e.kdKey)
		}

		heap.Push(h, tuple.New3(lb, e.kdKey, e))

		return true
	})
}
