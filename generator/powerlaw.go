package generator

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// PowerlawDegreeSequence is the discrete distribution P(k) ~ k^Exp on [Min, Max].
// Exp is given as is, so a typical degree exponent is negative (-2).
type PowerlawDegreeSequence struct {
	Min int
	Max int
	Exp float64

	cumulative []float64 // P(X <= Min+i)
}

var ErrRange = errors.New("generator: empty power-law range")

func (s *PowerlawDegreeSequence) Run() error {
	if s.Min < 1 || s.Max < s.Min {
		return ErrRange
	}
	s.cumulative = make([]float64, s.Max-s.Min+1)
	sum := 0.0
	for k := s.Min; k <= s.Max; k++ {
		sum += math.Pow(float64(k), s.Exp)
		s.cumulative[k-s.Min] = sum
	}
	for i := range s.cumulative {
		s.cumulative[i] /= sum
	}
	s.cumulative[len(s.cumulative)-1] = 1
	return nil
}

func (s *PowerlawDegreeSequence) ensure() {
	if s.cumulative == nil {
		if err := s.Run(); err != nil {
			panic(err)
		}
	}
}

func (s *PowerlawDegreeSequence) ExpectedAverageDegree() float64 {
	s.ensure()
	avg, prev := 0.0, 0.0
	for i, c := range s.cumulative {
		avg += float64(s.Min+i) * (c - prev)
		prev = c
	}
	return avg
}

// Draw one value by inverting the cumulative distribution.
func (s *PowerlawDegreeSequence) Draw(rng *rand.Rand) int {
	s.ensure()
	i := sort.SearchFloat64s(s.cumulative, rng.Float64())
	if i >= len(s.cumulative) {
		i = len(s.cumulative) - 1
	}
	return s.Min + i
}

// Sample draws n values, in no particular order.
func (s *PowerlawDegreeSequence) Sample(rng *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = s.Draw(rng)
	}
	return out
}
