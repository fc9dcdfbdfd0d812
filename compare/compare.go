// Package compare scores how similar a found clustering is to the ground truth.
package compare

import (
	"errors"
	"fmt"
	"math"

	"github.com/ScottSallinen/lfrbench/partition"
)

var (
	ErrSize    = errors.New("compare: clusterings differ in number of elements")
	ErrOverlap = errors.New("compare: measure needs non-overlapping clusterings")
)

// Measure is a similarity in [0, 1] (1 is identical). The written score is 1 - dissimilarity, which is this.
type Measure interface {
	Name() string
	Similarity(found, truth *partition.Cover) (float64, error)
}

type NMIMeasure struct{}

func (NMIMeasure) Name() string { return "NMI" }

// Uses partition NMI when both sides are partitions, overlapping NMI otherwise.
func (NMIMeasure) Similarity(found, truth *partition.Cover) (float64, error) {
	if a, ok := found.ToPartition(); ok {
		if b, ok := truth.ToPartition(); ok {
			return NMI(a, b)
		}
	}
	return OverlappingNMI(found, truth)
}

type ARMeasure struct{}

func (ARMeasure) Name() string { return "AR" }

func (ARMeasure) Similarity(found, truth *partition.Cover) (float64, error) {
	a, ok := found.ToPartition()
	if !ok {
		return 0, ErrOverlap
	}
	b, ok := truth.ToPartition()
	if !ok {
		return 0, ErrOverlap
	}
	return AdjustedRand(a, b)
}

// ByName accepts "NMI" and "AR".
func ByName(name string) (Measure, error) {
	switch name {
	case "NMI":
		return NMIMeasure{}, nil
	case "AR":
		return ARMeasure{}, nil
	}
	return nil, fmt.Errorf("unknown comparison %q", name)
}

// Default measures in output order.
func All() []Measure {
	return []Measure{NMIMeasure{}, ARMeasure{}}
}

type pairKey struct{ a, b uint32 }

type contingency struct {
	n     int
	cells map[pairKey]int
	rowsA map[uint32]int
	rowsB map[uint32]int
}

// Only elements assigned in both partitions take part.
func newContingency(a, b *partition.Partition) (*contingency, error) {
	if a.NumberOfElements() != b.NumberOfElements() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrSize, a.NumberOfElements(), b.NumberOfElements())
	}
	c := &contingency{
		cells: make(map[pairKey]int),
		rowsA: make(map[uint32]int),
		rowsB: make(map[uint32]int),
	}
	for u := 0; u < a.NumberOfElements(); u++ {
		sa, sb := a.SubsetOf(uint32(u)), b.SubsetOf(uint32(u))
		if sa == partition.None || sb == partition.None {
			continue
		}
		c.n++
		c.cells[pairKey{sa, sb}]++
		c.rowsA[sa]++
		c.rowsB[sb]++
	}
	return c, nil
}

func entropy(counts map[uint32]int, n int) (h float64) {
	for _, c := range counts {
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// NMI is mutual information over the arithmetic mean of the two entropies.
// Two trivial (zero entropy) partitions are identical, so 1.
func NMI(a, b *partition.Partition) (float64, error) {
	c, err := newContingency(a, b)
	if err != nil {
		return 0, err
	}
	if c.n == 0 {
		return 1, nil
	}
	ha, hb := entropy(c.rowsA, c.n), entropy(c.rowsB, c.n)
	if ha+hb == 0 {
		return 1, nil
	}
	n := float64(c.n)
	mi := 0.0
	for k, nij := range c.cells {
		pij := float64(nij) / n
		mi += pij * math.Log2(float64(nij)*n/(float64(c.rowsA[k.a])*float64(c.rowsB[k.b])))
	}
	return clamp01(2 * mi / (ha + hb)), nil
}

func choose2(x int) float64 {
	return float64(x) * float64(x-1) / 2
}

// AdjustedRand is the Hubert-Arabie adjusted Rand index.
// When the expected and maximum index coincide, returns 1 for identical clusterings (up to relabelling) and 0 otherwise.
func AdjustedRand(a, b *partition.Partition) (float64, error) {
	c, err := newContingency(a, b)
	if err != nil {
		return 0, err
	}
	if c.n < 2 {
		return 1, nil
	}
	index, sumA, sumB := 0.0, 0.0, 0.0
	for _, nij := range c.cells {
		index += choose2(nij)
	}
	for _, x := range c.rowsA {
		sumA += choose2(x)
	}
	for _, x := range c.rowsB {
		sumB += choose2(x)
	}
	expected := sumA * sumB / choose2(c.n)
	max := 0.5 * (sumA + sumB)
	if max == expected {
		if len(c.cells) == len(c.rowsA) && len(c.cells) == len(c.rowsB) {
			return 1, nil
		}
		return 0, nil
	}
	return (index - expected) / (max - expected), nil
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
