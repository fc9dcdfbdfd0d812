// Package metrics computes structural statistics of generated networks.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/partition"
	"github.com/ScottSallinen/lfrbench/utils"
)

// Gini coefficient of values. Values are shifted so the minimum is 0, then offset by 1e-7 so none is 0.
// Does not modify the input.
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	x := make([]float64, n)
	copy(x, values)
	if min := floats.Min(x); min < 0 {
		floats.AddConst(-min, x)
	}
	floats.AddConst(0.0000001, x)
	sort.Float64s(x)

	num := 0.0
	for i := range x {
		num += float64(2*(i+1)-n-1) * x[i]
	}
	return num / (float64(n) * floats.Sum(x))
}

type CommunityGini struct {
	Size int
	Gini float64
}

// GiniPerCommunity computes the Gini coefficient of member degrees for every subset, in subset id order.
func GiniPerCommunity(g *graph.Graph, cover *partition.Cover) []CommunityGini {
	members := cover.Members()
	out := make([]CommunityGini, 0, len(members))
	for _, id := range cover.SubsetIds() {
		nodes := members[id]
		degs := make([]float64, len(nodes))
		for i, u := range nodes {
			if int(u) < g.NumberOfNodes() {
				degs[i] = float64(g.Degree(u))
			}
		}
		out = append(out, CommunityGini{Size: len(nodes), Gini: Gini(degs)})
	}
	return out
}

// DegreeAssortativity is the Pearson correlation of the degrees at either end of an edge,
// each edge counted in both directions. NaN when undefined (no edges, or every endpoint has the same degree).
func DegreeAssortativity(g *graph.Graph) float64 {
	m := int(g.NumberOfEdges())
	if m == 0 {
		return math.NaN()
	}
	x := make([]float64, 0, 2*m)
	y := make([]float64, 0, 2*m)
	g.ForEdges(func(u, v uint32) {
		du, dv := float64(g.Degree(u)), float64(g.Degree(v))
		x = append(x, du, dv)
		y = append(y, dv, du)
	})
	if stat.Variance(x, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// LocalClustering of u: closed wedges over all wedges. 0 for degree < 2.
func LocalClustering(g *graph.Graph, u uint32) float64 {
	nbrs := g.Neighbours(u)
	d := len(nbrs)
	if d < 2 {
		return 0
	}
	triangles := 0
	for i, v := range nbrs {
		for _, w := range nbrs[i+1:] {
			if g.HasEdge(v, w) {
				triangles++
			}
		}
	}
	return float64(triangles) / (float64(d) * float64(d-1) / 2)
}

// AverageLocalClustering over the nodes of degree 2 or more; the others have no wedge and are left out.
// NaN when there is no such node.
func AverageLocalClustering(g *graph.Graph) float64 {
	sum, counted := 0.0, 0
	for u := 0; u < g.NumberOfNodes(); u++ {
		if g.Degree(uint32(u)) < 2 {
			continue
		}
		sum += LocalClustering(g, uint32(u))
		counted++
	}
	if counted == 0 {
		return math.NaN()
	}
	return sum / float64(counted)
}

// Summary of a degree sequence logged by the generators.
func DegreeSummary(g *graph.Graph) (min, max int, avg float64) {
	degs := g.Degrees()
	if len(degs) == 0 {
		return 0, 0, 0
	}
	return utils.MinSlice(degs), utils.MaxSlice(degs), float64(utils.Sum(degs)) / float64(len(degs))
}
