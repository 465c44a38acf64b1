//go:build go1.23

package xiter

import "iter"

// Filter2 creates an iterator which uses a function f to determine if a key-value should be yielded.
func Filter2[K, V any](x iter.Seq2[K, V], f func(K, V) bool) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range x {
			if !f(k, v) {
				continue
			}

			if !yield(k, v) {
				break
			}
		}
	}
}
