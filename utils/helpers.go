package utils

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

type Pair[F any, S any] struct {
	First  F
	Second S
}

func Max[T constraints.Ordered](x, y T) T {
	if x < y {
		return y
	}
	return x
}

func Min[T constraints.Ordered](x, y T) T {
	if y < x {
		return y
	}
	return x
}

func MaxSlice[T constraints.Ordered](slice []T) T {
	max := slice[0]
	for i := range slice {
		max = Max(max, slice[i])
	}
	return max
}

func MinSlice[T constraints.Ordered](slice []T) T {
	min := slice[0]
	for i := range slice {
		min = Min(min, slice[i])
	}
	return min
}

func Sum[T constraints.Integer | constraints.Float](slice []T) (sum T) {
	for i := range slice {
		sum += slice[i]
	}
	return sum
}

// Shuffle with the given source; pass nil for the global one.
func Shuffle[T any](rng *rand.Rand, slice []T) {
	for i := range slice {
		var j int
		if rng == nil {
			j = rand.Intn(i + 1)
		} else {
			j = rng.Intn(i + 1)
		}
		slice[i], slice[j] = slice[j], slice[i]
	}
}

// Rounds to the nearest index, ties to even.
func RoundIndex(x float64) int {
	return int(math.RoundToEven(x))
}

// Shortest representation that reads back to the same float, always with a decimal point or an exponent
// ("1.0", "0.25", "1e-05"), the way the plotting tools downstream print floats.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
