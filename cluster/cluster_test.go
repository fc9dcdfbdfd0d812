package cluster

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/lfrbench/compare"
	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/partition"
)

// Two 5-cliques joined by the edge 4-5, plus an isolated node 10.
func twoCliques() *graph.Graph {
	b := graph.NewBuilder(11)
	for _, base := range []uint32{0, 5} {
		for i := base; i < base+5; i++ {
			for j := i + 1; j < base+5; j++ {
				b.AddEdge(i, j)
			}
		}
	}
	b.AddEdge(4, 5)
	return b.Build()
}

func TestLouvainFindsCliques(t *testing.T) {
	g := twoCliques()
	p, err := (&Louvain{Resolution: 1, Seed: 42}).Cluster(context.Background(), g, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, p.NumberOfElements())

	truth := partition.FromSlice([]uint32{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 2})
	nmi, err := compare.NMI(p, truth)
	require.NoError(t, err)
	assert.InDelta(t, 1, nmi, 1e-9)
}

func TestLouvainCancelledAndEmpty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Louvain{Resolution: 1}).Cluster(ctx, twoCliques(), nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = (&Louvain{Resolution: 1}).Cluster(context.Background(), graph.NewBuilder(0).Build(), nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func fakeInfomap(t *testing.T, script string) string {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "Infomap")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestInfomap(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	// The last argument is the output directory; the network file is the one before it.
	tool := fakeInfomap(t, `printf "%s " "$@" > `+argsFile+`
for a in "$@"; do net="$out"; out="$a"; done
wc -l < "$net" > "$out/lines"
echo "running infomap"
printf '# v1\n# node module flow\n0 1 0.1\n1 1 0.1\n2 1 0.1\n3 1 0.1\n4 1 0.1\n5 2 0.1\n6 2 0.1\n7 2 0.1\n8 2 0.1\n9 2 0.1\n' > "$out/network.clu"`)

	var logged bytes.Buffer
	im := &Infomap{Binary: tool, Seed: 7, TempBase: t.TempDir()}
	p, err := im.Cluster(context.Background(), twoCliques(), &logged)
	require.NoError(t, err)
	assert.Contains(t, logged.String(), "running infomap")

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	fields := strings.Fields(string(args))
	require.Len(t, fields, 7)
	assert.Equal(t, []string{"-s", "7", "-2", "-z", "--clu"}, fields[:5])
	assert.True(t, strings.HasSuffix(fields[5], "network.txt"))

	assert.Equal(t, 11, p.NumberOfElements())
	assert.Equal(t, p.SubsetOf(0), p.SubsetOf(4))
	assert.NotEqual(t, p.SubsetOf(4), p.SubsetOf(5))
	// The isolated node was padded as a singleton.
	assert.NotEqual(t, p.SubsetOf(9), p.SubsetOf(10))
	assert.Equal(t, 3, p.NumberOfSubsets())
}

func TestInfomapFailure(t *testing.T) {
	tool := fakeInfomap(t, "exit 1")
	_, err := (&Infomap{Binary: tool}).Cluster(context.Background(), twoCliques(), nil)
	assert.Error(t, err)

	tool = fakeInfomap(t, "exit 0")
	_, err = (&Infomap{Binary: tool}).Cluster(context.Background(), twoCliques(), nil)
	assert.Error(t, err, "missing .clu output")
}

func TestRandomSeedRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := randomSeed()
		assert.GreaterOrEqual(t, s, int64(-1<<31))
		assert.LessOrEqual(t, s, int64(1<<31))
	}
}

func TestByName(t *testing.T) {
	a, err := ByName("Infomap", Config{InfomapBinary: "/bin/Infomap"})
	require.NoError(t, err)
	assert.Equal(t, "Infomap", a.Name())
	assert.False(t, a.SupportsOverlap())

	a, err = ByName("Louvain", Config{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.(*Louvain).Resolution)

	_, err = ByName("PLP", Config{})
	assert.Error(t, err)
}
