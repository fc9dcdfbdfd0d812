package utils

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Does not sort the input array, instead a newly allocated index array that represents the sorted order is returned.
// Smallest values first. Stable: equal values keep their input order.
func SortGiveIndexesSmallestFirst[T constraints.Ordered](input []T) []int {
	idx := identity(len(input))
	slices.SortStableFunc(idx, func(a, b int) int { return compareOrdered(input[a], input[b]) })
	return idx
}

// As SortGiveIndexesSmallestFirst, largest values first.
func SortGiveIndexesLargestFirst[T constraints.Ordered](input []T) []int {
	idx := identity(len(input))
	slices.SortStableFunc(idx, func(a, b int) int { return compareOrdered(input[b], input[a]) })
	return idx
}

func compareOrdered[T constraints.Ordered](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
