package phtree

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestArrayHypercubeCRUD(t *testing.T) {
	Convey("Given an empty arrayHypercube over 3 dimensions", t, func() {
		a := newArrayHypercube[string](3)

		Convey("Then every slot starts unoccupied", func() {
			So(a.count(), ShouldEqual, 0)

			_, ok := a.get(0)
			So(ok, ShouldBeFalse)
		})

		Convey("When getOrCreate fills a slot", func() {
			e, created := a.getOrCreate(4)
			So(created, ShouldBeTrue)
			e.setValue(Key{}, "x")

			Convey("Then get finds it", func() {
				v, ok := a.get(4)
				So(ok, ShouldBeTrue)
				So(v.Value(), ShouldEqual, "x")
			})

			Convey("Then getOrCreate on the same slot does not recreate it", func() {
				again, created := a.getOrCreate(4)
				So(created, ShouldBeFalse)
				So(again.Value(), ShouldEqual, "x")
			})

			Convey("Then removing it frees the slot", func() {
				old, ok := a.remove(4)
				So(ok, ShouldBeTrue)
				So(old.Value(), ShouldEqual, "x")
				So(a.count(), ShouldEqual, 0)

				_, ok = a.get(4)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestArrayHypercubeMaskedSingleQuadrantShortCircuit(t *testing.T) {
	Convey("Given an arrayHypercube with one occupied slot", t, func() {
		a := newArrayHypercube[int](3)
		e, _ := a.getOrCreate(5)
		e.setValue(Key{}, 42)

		Convey("When masked is called with minMask == maxMask matching the slot", func() {
			var found []int
			a.masked(5, 5, func(e *Entry[int]) bool {
				found = append(found, e.Value())
				return true
			})

			Convey("Then it yields exactly that slot", func() {
				So(found, ShouldResemble, []int{42})
			})
		})

		Convey("When masked is called with minMask == maxMask not matching the slot", func() {
			var found []int
			a.masked(2, 2, func(e *Entry[int]) bool {
				found = append(found, e.Value())
				return true
			})

			Convey("Then it yields nothing", func() {
				So(found, ShouldBeEmpty)
			})
		})
	})
}

func TestArrayHypercubeMaskedRange(t *testing.T) {
	Convey("Given an arrayHypercube populated across every slot", t, func() {
		a := newArrayHypercube[uint64](3)

		for i := uint64(0); i < 8; i++ {
			e, _ := a.getOrCreate(i)
			e.setValue(Key{}, i)
		}

		Convey("When masked is called with a free bit", func() {
			var found []uint64
			a.masked(0b001, 0b011, func(e *Entry[uint64]) bool {
				found = append(found, e.Value())
				return true
			})

			Convey("Then it yields every slot matching (hcPos|minMask)&maxMask == hcPos", func() {
				So(found, ShouldResemble, []uint64{0b001, 0b011})
			})
		})
	})
}
