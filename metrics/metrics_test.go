package metrics

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/partition"
)

func build(n int, edges ...[2]uint32) *graph.Graph {
	b := graph.NewBuilder(n)
	for _, e := range edges {
		b.AddEdge(e[0], e[1])
	}
	return b.Build()
}

func TestGini(t *testing.T) {
	assert.InDelta(t, 0, Gini([]float64{3, 3, 3, 3}), 1e-9)
	// One holder of everything among four: (n-1)/n.
	assert.InDelta(t, 0.75, Gini([]float64{0, 0, 0, 10}), 1e-6)
	// Negative values are shifted.
	assert.InDelta(t, Gini([]float64{0, 1, 2}), Gini([]float64{-5, -4, -3}), 1e-6)
	assert.True(t, math.IsNaN(Gini(nil)))

	in := []float64{4, 1, 3}
	Gini(in)
	assert.Equal(t, []float64{4, 1, 3}, in)
}

func TestGiniProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("gini is within [0,1)", prop.ForAll(
		func(x []float64) bool {
			if len(x) == 0 {
				return true
			}
			v := Gini(x)
			return v >= -1e-9 && v < 1
		},
		gen.SliceOf(gen.Float64Range(0, 1000)),
	))

	properties.Property("gini ignores order", prop.ForAll(
		func(x []float64) bool {
			if len(x) < 2 {
				return true
			}
			rev := make([]float64, len(x))
			for i := range x {
				rev[len(x)-1-i] = x[i]
			}
			return math.Abs(Gini(x)-Gini(rev)) < 1e-9
		},
		gen.SliceOf(gen.Float64Range(0, 1000)),
	))

	properties.TestingRun(t)
}

func TestGiniPerCommunity(t *testing.T) {
	// Star 0-{1,2,3} and an edge 4-5.
	g := build(6, [2]uint32{0, 1}, [2]uint32{0, 2}, [2]uint32{0, 3}, [2]uint32{4, 5})
	c := partition.CoverFromPartition(partition.FromSlice([]uint32{0, 0, 0, 0, 1, 1}))
	res := GiniPerCommunity(g, c)
	require.Len(t, res, 2)
	assert.Equal(t, 4, res[0].Size)
	assert.Equal(t, 2, res[1].Size)
	assert.InDelta(t, Gini([]float64{3, 1, 1, 1}), res[0].Gini, 1e-12)
	assert.InDelta(t, 0, res[1].Gini, 1e-9)
}

func TestDegreeAssortativity(t *testing.T) {
	// A star is perfectly disassortative.
	star := build(5, [2]uint32{0, 1}, [2]uint32{0, 2}, [2]uint32{0, 3}, [2]uint32{0, 4})
	assert.InDelta(t, -1, DegreeAssortativity(star), 1e-9)

	// Regular graphs have no defined assortativity.
	ring := build(4, [2]uint32{0, 1}, [2]uint32{1, 2}, [2]uint32{2, 3}, [2]uint32{3, 0})
	assert.True(t, math.IsNaN(DegreeAssortativity(ring)))
	assert.True(t, math.IsNaN(DegreeAssortativity(build(3))))
}

func TestClustering(t *testing.T) {
	// Triangle 0-1-2 with a tail 2-3.
	g := build(4, [2]uint32{0, 1}, [2]uint32{1, 2}, [2]uint32{0, 2}, [2]uint32{2, 3})
	assert.InDelta(t, 1, LocalClustering(g, 0), 1e-12)
	assert.InDelta(t, 1.0/3, LocalClustering(g, 2), 1e-12)
	assert.Equal(t, 0.0, LocalClustering(g, 3))
	// Node 3 has degree 1 and is not part of the average.
	assert.InDelta(t, (1+1+1.0/3)/3, AverageLocalClustering(g), 1e-12)
	assert.True(t, math.IsNaN(AverageLocalClustering(build(0))))
	assert.True(t, math.IsNaN(AverageLocalClustering(build(2, [2]uint32{0, 1}))))
}

func TestDegreeSummary(t *testing.T) {
	min, max, avg := DegreeSummary(build(3, [2]uint32{0, 1}))
	assert.Equal(t, 0, min)
	assert.Equal(t, 1, max)
	assert.InDelta(t, 2.0/3, avg, 1e-12)
}
