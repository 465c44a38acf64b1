package phtree

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/phtree/pkg/opt"
)

func newTestRoot[V any]() (*Node[V], *pools[V]) {
	p := newPools[V]()
	return newNode[V](p, 2, 63, 0), p
}

func TestNodeInsertGetRemove(t *testing.T) {
	Convey("Given an empty root node over 2 dimensions", t, func() {
		root, p := newTestRoot[string]()

		Convey("When inserting a single key", func() {
			old, created := root.insert(p, Key{1, 2}, "a")

			Convey("Then it reports no prior value and a fresh entry", func() {
				So(old.IsNone(), ShouldBeTrue)
				So(created, ShouldBeTrue)
			})

			Convey("Then get finds it", func() {
				v, ok := root.get(Key{1, 2})
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "a")
			})

			Convey("Then get on a different key fails", func() {
				_, ok := root.get(Key{1, 3})
				So(ok, ShouldBeFalse)
			})

			Convey("Then re-inserting the same key replaces it", func() {
				old, created := root.insert(p, Key{1, 2}, "b")
				So(old.IsSome(), ShouldBeTrue)
				So(old.Unwrap(), ShouldEqual, "a")
				So(created, ShouldBeFalse)

				v, _ := root.get(Key{1, 2})
				So(v, ShouldEqual, "b")
			})

			Convey("Then removing it leaves the node empty", func() {
				old, removed := root.remove(p, Key{1, 2})
				So(removed, ShouldBeTrue)
				So(old.Unwrap(), ShouldEqual, "a")

				_, ok := root.get(Key{1, 2})
				So(ok, ShouldBeFalse)
			})

			Convey("Then removing a different key does nothing", func() {
				_, removed := root.remove(p, Key{9, 9})
				So(removed, ShouldBeFalse)
			})
		})
	})
}

func TestNodeSplit(t *testing.T) {
	Convey("Given a root with one entry whose hcPos collides with a second key", t, func() {
		root, p := newTestRoot[int]()

		// Both keys share hc bit at postLen 63 (both have dim0 bit63==0,
		// dim1 bit63==0), so the first insert and a second, structurally
		// different key collide at the same hcPos and force a split.
		root.insert(p, Key{0b1000, 0b0000}, 1)
		root.insert(p, Key{0b0100, 0b0000}, 2)

		Convey("Then both keys are still retrievable", func() {
			v1, ok1 := root.get(Key{0b1000, 0b0000})
			v2, ok2 := root.get(Key{0b0100, 0b0000})

			So(ok1, ShouldBeTrue)
			So(v1, ShouldEqual, 1)
			So(ok2, ShouldBeTrue)
			So(v2, ShouldEqual, 2)
		})

		Convey("Then the root's entry now points at a subnode", func() {
			e, ok := root.index.get(hc(Key{0b1000, 0b0000}, root.postLen))
			So(ok, ShouldBeTrue)
			So(e.IsNode(), ShouldBeTrue)
		})

		Convey("Then a third key conflicting above the subnode's postLen is inserted by a further split", func() {
			_, created := root.insert(p, Key{0, 0b10000000}, 3)
			So(created, ShouldBeTrue)

			v, ok := root.get(Key{0, 0b10000000})
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3)
		})
	})
}

func TestNodeMergeOnRemove(t *testing.T) {
	Convey("Given a node that has split into a 2-entry subnode", t, func() {
		root, p := newTestRoot[int]()

		k1 := Key{0b1000, 0b0000}
		k2 := Key{0b0100, 0b0000}

		root.insert(p, k1, 1)
		root.insert(p, k2, 2)

		Convey("When one of the two entries is removed", func() {
			_, removed := root.remove(p, k2)
			So(removed, ShouldBeTrue)

			Convey("Then the surviving entry is hoisted back into the root", func() {
				e, ok := root.index.get(hc(k1, root.postLen))
				So(ok, ShouldBeTrue)
				So(e.IsNode(), ShouldBeFalse)
				So(e.Value(), ShouldEqual, 1)
			})

			Convey("Then the surviving key is still reachable", func() {
				v, ok := root.get(k1)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1)
			})
		})
	})
}

func TestNodeCompute(t *testing.T) {
	Convey("Given an empty root node", t, func() {
		root, p := newTestRoot[int]()

		Convey("When compute inserts on absence", func() {
			result, changed := root.compute(p, Key{1, 1}, func(_ Key, cur opt.Option[int]) opt.Option[int] {
				So(cur.IsNone(), ShouldBeTrue)
				return opt.Some(42)
			})

			So(changed, ShouldBeTrue)
			So(result.Unwrap(), ShouldEqual, 42)

			v, ok := root.get(Key{1, 1})
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 42)
		})

		Convey("When compute declines to insert on absence", func() {
			result, changed := root.compute(p, Key{1, 1}, func(_ Key, _ opt.Option[int]) opt.Option[int] {
				return opt.None[int]()
			})

			So(changed, ShouldBeFalse)
			So(result.IsNone(), ShouldBeTrue)

			_, ok := root.get(Key{1, 1})
			So(ok, ShouldBeFalse)
		})

		Convey("When compute removes an existing entry", func() {
			root.insert(p, Key{1, 1}, 7)

			result, changed := root.compute(p, Key{1, 1}, func(_ Key, cur opt.Option[int]) opt.Option[int] {
				So(cur.Unwrap(), ShouldEqual, 7)
				return opt.None[int]()
			})

			So(changed, ShouldBeTrue)
			So(result.IsNone(), ShouldBeTrue)

			_, ok := root.get(Key{1, 1})
			So(ok, ShouldBeFalse)
		})
	})
}
