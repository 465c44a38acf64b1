package phtree

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRangeBitsAt(t *testing.T) {
	Convey("Given a window where every dimension agrees above the bit examined", t, func() {
		min := Key{0b100, 0b000}
		max := Key{0b111, 0b011}

		Convey("When the bit examined is forced to 1 in both min and max", func() {
			minMask, maxMask := rangeBitsAt(min, max, 2)
			So(minMask&1, ShouldEqual, 1)
			So(maxMask&1, ShouldEqual, 1)
		})

		Convey("When the bit examined is forced to 0 in both min and max", func() {
			minMask, maxMask := rangeBitsAt(min, max, 2)
			So(minMask&2, ShouldEqual, 0)
			So(maxMask&2, ShouldEqual, 0)
		})
	})

	Convey("Given a window where a dimension straddles the bit examined", t, func() {
		min := Key{0b000}
		max := Key{0b011}

		Convey("Then the bit is left free (maxMask set, minMask clear)", func() {
			minMask, maxMask := rangeBitsAt(min, max, 1)
			So(minMask, ShouldEqual, uint64(0))
			So(maxMask, ShouldEqual, uint64(1))
		})
	})

	Convey("Given a window at the highest bit position", t, func() {
		min := Key{0}
		max := Key{1 << 63}

		Convey("Then it does not panic shifting past the width of uint64", func() {
			So(func() { rangeBitsAt(min, max, 63) }, ShouldNotPanic)
		})
	})
}

func TestKeyInWindow(t *testing.T) {
	Convey("Given a window [1,1]..[3,3]", t, func() {
		min := Key{1, 1}
		max := Key{3, 3}

		Convey("A key inside the window passes", func() {
			So(keyInWindow(Key{2, 2}, min, max), ShouldBeTrue)
		})

		Convey("A key on the boundary passes", func() {
			So(keyInWindow(Key{1, 3}, min, max), ShouldBeTrue)
		})

		Convey("A key outside one dimension fails", func() {
			So(keyInWindow(Key{0, 2}, min, max), ShouldBeFalse)
			So(keyInWindow(Key{2, 4}, min, max), ShouldBeFalse)
		})
	})
}

func TestInfixWithinWindow(t *testing.T) {
	Convey("Given a subnode whose infix bits fall inside the window", t, func() {
		min := Key{0b1000_0000}
		max := Key{0b1111_1111}
		key := Key{0b1010_0000}

		Convey("Then infixWithinWindow reports true", func() {
			So(infixWithinWindow(key, min, max, 4, 3), ShouldBeTrue)
		})
	})

	Convey("Given a subnode whose infix bits fall outside the window", t, func() {
		min := Key{0b1000_0000}
		max := Key{0b1011_1111}
		key := Key{0b1110_0000}

		Convey("Then infixWithinWindow reports false", func() {
			So(infixWithinWindow(key, min, max, 4, 3), ShouldBeFalse)
		})
	})
}
