package graph

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/utils"
)

// Graph is a simple undirected graph over nodes 0..N-1.
// Adjacency lists are sorted and hold no duplicates or self loops.
type Graph struct {
	adj   [][]uint32
	edges uint64
}

func (g *Graph) NumberOfNodes() int { return len(g.adj) }

// Same as NumberOfNodes; nodes are never deleted, so ids are dense.
func (g *Graph) UpperNodeIdBound() int { return len(g.adj) }

func (g *Graph) NumberOfEdges() uint64 { return g.edges }

func (g *Graph) Degree(u uint32) int { return len(g.adj[u]) }

// Neighbours of u, sorted. Do not modify.
func (g *Graph) Neighbours(u uint32) []uint32 { return g.adj[u] }

func (g *Graph) Degrees() []int {
	degs := make([]int, len(g.adj))
	for u := range g.adj {
		degs[u] = len(g.adj[u])
	}
	return degs
}

func (g *Graph) HasEdge(u, v uint32) bool {
	if int(u) >= len(g.adj) || int(v) >= len(g.adj) {
		return false
	}
	nbrs := g.adj[u]
	i := sort.Search(len(nbrs), func(i int) bool { return nbrs[i] >= v })
	return i < len(nbrs) && nbrs[i] == v
}

// ForEdges calls fn once per undirected edge, with u < v.
func (g *Graph) ForEdges(fn func(u, v uint32)) {
	for u := range g.adj {
		for _, v := range g.adj[u] {
			if uint32(u) < v {
				fn(uint32(u), v)
			}
		}
	}
}

// Builder collects edges, then Build sorts and deduplicates them.
type Builder struct {
	adj       [][]uint32
	SelfLoops uint64
}

func NewBuilder(n int) *Builder {
	return &Builder{adj: make([][]uint32, n)}
}

func (b *Builder) NumberOfNodes() int { return len(b.adj) }

// Grows the builder to at least n nodes.
func (b *Builder) EnsureNodes(n int) {
	for len(b.adj) < n {
		b.adj = append(b.adj, nil)
	}
}

// AddEdge records {u,v}. Self loops are counted and dropped. Out of range ids grow the node set.
func (b *Builder) AddEdge(u, v uint32) {
	if u == v {
		b.SelfLoops++
		return
	}
	b.EnsureNodes(int(utils.Max(u, v)) + 1)
	b.adj[u] = append(b.adj[u], v)
	b.adj[v] = append(b.adj[v], u)
}

// Adds only the u->v half. Used by readers whose input lists each edge in both directions.
func (b *Builder) AddArc(u, v uint32) {
	if u == v {
		b.SelfLoops++
		return
	}
	b.EnsureNodes(int(utils.Max(u, v)) + 1)
	b.adj[u] = append(b.adj[u], v)
}

// Build finishes the graph. Arcs lacking their reverse are mirrored so the result is symmetric.
func (b *Builder) Build() *Graph {
	g := &Graph{adj: b.adj}
	b.adj = nil

	duplicates := uint64(0)
	for u := range g.adj {
		nbrs := g.adj[u]
		sort.Slice(nbrs, func(i, j int) bool { return nbrs[i] < nbrs[j] })
		g.adj[u] = dedupSorted(nbrs, &duplicates)
	}

	// Mirror one-sided arcs.
	var missing []utils.Pair[uint32, uint32]
	for u := range g.adj {
		for _, v := range g.adj[u] {
			if !g.HasEdge(v, uint32(u)) {
				missing = append(missing, utils.Pair[uint32, uint32]{First: v, Second: uint32(u)})
			}
		}
	}
	if len(missing) > 0 {
		for _, m := range missing {
			g.adj[m.First] = append(g.adj[m.First], m.Second)
		}
		for u := range g.adj {
			nbrs := g.adj[u]
			sort.Slice(nbrs, func(i, j int) bool { return nbrs[i] < nbrs[j] })
		}
	}

	half := uint64(0)
	for u := range g.adj {
		half += uint64(len(g.adj[u]))
	}
	g.edges = half / 2

	if b.SelfLoops > 0 || duplicates > 0 || len(missing) > 0 {
		log.Debug().Msg("Dropped " + utils.V(b.SelfLoops) + " self loops, " + utils.V(duplicates) + " duplicate arcs; mirrored " + utils.V(len(missing)) + " arcs")
	}
	return g
}

func dedupSorted(nbrs []uint32, duplicates *uint64) []uint32 {
	if len(nbrs) < 2 {
		return nbrs
	}
	w := 1
	for r := 1; r < len(nbrs); r++ {
		if nbrs[r] == nbrs[w-1] {
			*duplicates++
			continue
		}
		nbrs[w] = nbrs[r]
		w++
	}
	return nbrs[:w]
}
