package phtree_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	. "github.com/flier/phtree/pkg/phtree"
)

func TestTreeRangeQuery(t *testing.T) {
	Convey("Given a tree of float64 points via Float64Preprocessor", t, func() {
		tree := New[string](2)
		var pre Float64Preprocessor

		points := map[string][2]float64{
			"origin": {0, 0},
			"near":   {1, 1},
			"mid":    {5, 5},
			"far":    {100, 100},
		}

		for label, coords := range points {
			key := make(Key, 2)
			pre.Pre(coords[:], key)
			tree.Put(key, label)
		}

		center := make(Key, 2)
		pre.Pre([]float64{0, 0}, center)

		Convey("When searching with a small radius", func() {
			var got []string
			for _, v := range tree.RangeQuery(2, center, Float64Distance{}) {
				got = append(got, v)
			}

			So(got, ShouldContain, "origin")
			So(got, ShouldContain, "near")
			So(len(got), ShouldEqual, 2)
		})

		Convey("When searching with a radius covering everything", func() {
			count := 0
			for range tree.RangeQuery(1000, center, Float64Distance{}) {
				count++
			}

			So(count, ShouldEqual, len(points))
		})

		Convey("When searching with a radius of 0 away from any point", func() {
			off := make(Key, 2)
			pre.Pre([]float64{50, 50}, off)

			count := 0
			for range tree.RangeQuery(0, off, Float64Distance{}) {
				count++
			}

			So(count, ShouldEqual, 0)
		})
	})
}
