// Package util holds small slice helpers shared across the module.
package util

// Contains reports whether v is an element of elems.
func Contains[T comparable](elems []T, v T) bool {
	for _, e := range elems {
		if e == v {
			return true
		}
	}

	return false
}