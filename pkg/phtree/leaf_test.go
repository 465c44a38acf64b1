package phtree

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOrderedLeafCRUD(t *testing.T) {
	Convey("Given an empty orderedLeaf", t, func() {
		l := newOrderedLeaf[string](3)

		Convey("When entries are inserted out of order", func() {
			for _, hcPos := range []uint64{5, 1, 3, 7, 0} {
				e, created := l.getOrCreate(hcPos)
				So(created, ShouldBeTrue)
				e.setValue(Key{}, string(rune('a'+hcPos)))
			}

			Convey("Then the keys stay sorted", func() {
				for i := 1; i < len(l.keys); i++ {
					So(l.keys[i], ShouldBeGreaterThan, l.keys[i-1])
				}
			})

			Convey("Then get finds an inserted key by its hcPos", func() {
				v, ok := l.get(3)
				So(ok, ShouldBeTrue)
				So(v.Value(), ShouldEqual, string(rune('a'+3)))
			})

			Convey("Then removing a middle key preserves order of the rest", func() {
				_, ok := l.remove(3)
				So(ok, ShouldBeTrue)

				for i := 1; i < len(l.keys); i++ {
					So(l.keys[i], ShouldBeGreaterThan, l.keys[i-1])
				}

				_, ok = l.get(3)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestOrderedLeafLinearAndBinarySearchAgree(t *testing.T) {
	Convey("Given an orderedLeaf populated past the linear search threshold", t, func() {
		l := newOrderedLeaf[int](8)

		for i := 0; i < linearSearchThreshold+5; i++ {
			e, _ := l.getOrCreate(uint64(i))
			e.setValue(Key{}, i)
		}

		Convey("Then every key is still found by binary search", func() {
			for i := 0; i < linearSearchThreshold+5; i++ {
				v, ok := l.get(uint64(i))
				So(ok, ShouldBeTrue)
				So(v.Value(), ShouldEqual, i)
			}
		})

		Convey("Then a missing key reports false", func() {
			_, ok := l.get(uint64(linearSearchThreshold + 100))
			So(ok, ShouldBeFalse)
		})
	})
}

func TestOrderedLeafToArrayHypercubeRoundTrip(t *testing.T) {
	Convey("Given an orderedLeaf over 3 dimensions with several entries", t, func() {
		l := newOrderedLeaf[string](3)

		for _, hcPos := range []uint64{0, 2, 5, 7} {
			e, _ := l.getOrCreate(hcPos)
			e.setValue(Key{}, string(rune('a'+hcPos)))
		}

		Convey("When converted to an arrayHypercube", func() {
			a := l.toArrayHypercube(3)

			Convey("Then it reports the same occupancy count", func() {
				So(a.count(), ShouldEqual, l.count())
			})

			Convey("Then every original entry is reachable at the same hcPos", func() {
				for _, hcPos := range []uint64{0, 2, 5, 7} {
					v, ok := a.get(hcPos)
					So(ok, ShouldBeTrue)
					So(v.Value(), ShouldEqual, string(rune('a'+hcPos)))
				}
			})

			Convey("Then converting back to an orderedLeaf recovers the same keys", func() {
				back := a.toOrderedLeaf(3)
				So(back.count(), ShouldEqual, l.count())

				for _, hcPos := range []uint64{0, 2, 5, 7} {
					v, ok := back.get(hcPos)
					So(ok, ShouldBeTrue)
					So(v.Value(), ShouldEqual, string(rune('a'+hcPos)))
				}
			})
		})
	})
}
