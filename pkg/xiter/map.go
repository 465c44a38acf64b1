//go:build go1.23

package xiter

import "iter"

// MapValue takes a function and creates an iterator which calls that function f on each key-value pair.
func MapValue[K, V, O any](x iter.Seq2[K, V], f func(K, V) O) iter.Seq2[K, O] {
	return func(yield func(K, O) bool) {
		for k, v := range x {
			if !yield(k, f(k, v)) {
				break
			}
		}
	}
}
