package utils

import "iter"

func Filter[S any](s []S, fn func(S) bool) iter.Seq[S] {
	return func(yield func(S) bool) {
		for _, v := range s {
			if fn(v) {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// IndexOf returns the index of the first element matching fn, or -1.
func IndexOf[S any](s []S, fn func(S) bool) int {
	for i, v := range s {
		if fn(v) {
			return i
		}
	}
	return -1
}
