package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two triangles joined by the edge 2-3, plus isolated node 6.
func testGraph() *Graph {
	b := NewBuilder(7)
	for _, e := range [][2]uint32{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {3, 4}, {4, 5}, {3, 5}} {
		b.AddEdge(e[0], e[1])
	}
	return b.Build()
}

func TestBuilderDropsLoopsAndDuplicates(t *testing.T) {
	b := NewBuilder(3)
	b.AddEdge(0, 1)
	b.AddEdge(1, 0)
	b.AddEdge(1, 1)
	b.AddArc(1, 2) // one-sided, should be mirrored
	g := b.Build()

	assert.Equal(t, 3, g.NumberOfNodes())
	assert.Equal(t, uint64(2), g.NumberOfEdges())
	assert.True(t, g.HasEdge(2, 1))
	assert.False(t, g.HasEdge(0, 2))
	assert.Equal(t, []uint32{0, 2}, g.Neighbours(1))
	assert.Equal(t, uint64(1), b.SelfLoops)
}

func TestBuilderGrows(t *testing.T) {
	b := NewBuilder(0)
	b.AddEdge(4, 2)
	g := b.Build()
	assert.Equal(t, 5, g.NumberOfNodes())
	assert.Equal(t, 0, g.Degree(0))
}

func TestForEdgesOncePerEdge(t *testing.T) {
	g := testGraph()
	count := 0
	g.ForEdges(func(u, v uint32) {
		assert.Less(t, u, v)
		count++
	})
	assert.Equal(t, 7, count)
}

func TestMETISRoundTrip(t *testing.T) {
	g := testGraph()
	var buf bytes.Buffer
	require.NoError(t, WriteMETIS(&buf, g))
	assert.True(t, strings.HasPrefix(buf.String(), "7 7\n2 3\n"))

	back, err := ReadMETIS(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.NumberOfNodes(), back.NumberOfNodes())
	assert.Equal(t, g.NumberOfEdges(), back.NumberOfEdges())
	for u := 0; u < g.NumberOfNodes(); u++ {
		assert.Equal(t, g.Neighbours(uint32(u)), back.Neighbours(uint32(u)))
	}
}

func TestMETISWeightsAndComments(t *testing.T) {
	in := "% a comment\n3 2 1\n2 5\n1 5 3 7\n% inner\n2 7\n"
	g, err := ReadMETIS(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), g.NumberOfEdges())
	assert.True(t, g.HasEdge(0, 1))
	assert.True(t, g.HasEdge(1, 2))

	in = "3 1 10\n4 2\n9 1\n1\n"
	g, err = ReadMETIS(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), g.NumberOfEdges())
	assert.Equal(t, 0, g.Degree(2))
}

func TestMETISErrors(t *testing.T) {
	_, err := ReadMETIS(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadMETIS(strings.NewReader("3 1\n2\n1\n"))
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadMETIS(strings.NewReader("2 1\n3\n1\n"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadLFR(t *testing.T) {
	in := "1\t2\n2\t1\n2\t3\n3\t2\n"
	g, err := ReadLFR(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumberOfNodes())
	assert.Equal(t, uint64(2), g.NumberOfEdges())

	_, err = ReadLFR(strings.NewReader("0 1\n"))
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadLFR(strings.NewReader("1 x\n"))
	assert.ErrorIs(t, err, ErrFormat)
	// One past uint32 would wrap to node 0.
	_, err = ReadLFR(strings.NewReader("1 4294967297\n"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestEdgeListRoundTrip(t *testing.T) {
	g := testGraph()
	var buf bytes.Buffer
	require.NoError(t, WriteEdgeListSpaceZero(&buf, g))
	assert.Equal(t, 7, strings.Count(buf.String(), "\n"))

	back, err := ReadEdgeList(&buf, 0, g.NumberOfNodes())
	require.NoError(t, err)
	assert.Equal(t, g.NumberOfEdges(), back.NumberOfEdges())
	assert.Equal(t, 7, back.NumberOfNodes())

	_, err = ReadEdgeList(strings.NewReader("0 9\n"), 0, 3)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.metis.graph")
	require.NoError(t, WriteFile(path, METIS, testGraph()))
	g, err := ReadFile(path, METIS)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), g.NumberOfEdges())

	_, err = ReadFile(filepath.Join(dir, "missing"), METIS)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Error(t, WriteFile(path, LFR, g))
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{METIS, LFR, EdgeListSpaceZero} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("graphml")
	assert.Error(t, err)
}

func TestOverview(t *testing.T) {
	o := ComputeOverview(testGraph())
	assert.Equal(t, 7, o.Nodes)
	assert.Equal(t, uint64(7), o.Edges)
	assert.Equal(t, 0, o.MinDegree)
	assert.Equal(t, 3, o.MaxDegree)
	assert.Equal(t, 1, o.Isolated)
	assert.Equal(t, 2, o.Components)
	assert.Equal(t, 6, o.LargestComponent)
	assert.Contains(t, o.String(), "connected components")
}

func TestToGonum(t *testing.T) {
	ug := ToGonum(testGraph())
	assert.Equal(t, 7, ug.Nodes().Len())
	assert.True(t, ug.HasEdgeBetween(2, 3))
	assert.False(t, ug.HasEdgeBetween(0, 6))
}
