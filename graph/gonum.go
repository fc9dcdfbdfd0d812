package graph

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ScottSallinen/lfrbench/utils"
)

// ToGonum copies g into a gonum graph. Node ids are kept; every node is present, including isolated ones.
func ToGonum(g *Graph) *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for u := 0; u < g.NumberOfNodes(); u++ {
		ug.AddNode(simple.Node(u))
	}
	g.ForEdges(func(u, v uint32) {
		ug.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
	})
	return ug
}

type Overview struct {
	Nodes            int
	Edges            uint64
	MinDegree        int
	MaxDegree        int
	AvgDegree        float64
	Isolated         int
	Components       int
	LargestComponent int
}

func ComputeOverview(g *Graph) Overview {
	o := Overview{Nodes: g.NumberOfNodes(), Edges: g.NumberOfEdges()}
	if o.Nodes == 0 {
		return o
	}
	degs := g.Degrees()
	o.MinDegree = utils.MinSlice(degs)
	o.MaxDegree = utils.MaxSlice(degs)
	o.AvgDegree = float64(utils.Sum(degs)) / float64(o.Nodes)
	for _, d := range degs {
		if d == 0 {
			o.Isolated++
		}
	}
	comps := topo.ConnectedComponents(ToGonum(g))
	o.Components = len(comps)
	for _, c := range comps {
		o.LargestComponent = utils.Max(o.LargestComponent, len(c))
	}
	return o
}

func (o Overview) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Network Properties:\n")
	fmt.Fprintf(&b, "nodes, edges\t\t\t%d, %d\n", o.Nodes, o.Edges)
	fmt.Fprintf(&b, "min/max/avg degree\t\t%d, %d, %.6f\n", o.MinDegree, o.MaxDegree, o.AvgDegree)
	fmt.Fprintf(&b, "isolated nodes\t\t\t%d\n", o.Isolated)
	fmt.Fprintf(&b, "connected components\t\t%d\n", o.Components)
	fmt.Fprintf(&b, "size of largest component\t%d (%.2f %%)\n", o.LargestComponent, 100*float64(o.LargestComponent)/float64(utils.Max(o.Nodes, 1)))
	return b.String()
}
