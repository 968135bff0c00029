package core

import (
	"golang.org/x/exp/constraints"
)

// Series is an ordered sequence of values, such as the y values of a group
type Series[T constraints.Ordered] []T

// Values returns the underlying slice of values
func (s Series[T]) Values() []T {
	return s
}

// Length returns the number of values in the series
func (s Series[T]) Length() int {
	return len(s)
}

// Last returns the value at a specified position from the end
// position 0 is the last value, 1 is the second-to-last, etc.
func (s Series[T]) Last(position int) T {
	return s[len(s)-1-position]
}

// IndexOf returns the first index holding v, or -1
func (s Series[T]) IndexOf(v T) int {
	for i, value := range s {
		if value == v {
			return i
		}
	}
	return -1
}

// Filter returns the values accepted by keep, in order
func (s Series[T]) Filter(keep func(T) bool) Series[T] {
	out := make(Series[T], 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
