package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/lfrbench/cluster"
	"github.com/ScottSallinen/lfrbench/compare"
	"github.com/ScottSallinen/lfrbench/generator"
	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/partition"
)

// Writes a Native network laid out like a batch job's output and returns its network path.
func batchNetwork(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "networks_12", "proc3")
	p := generator.Params{N: 300, MinDeg: 5, MaxDeg: 15, DegExp: -2, MinCom: 20, MaxCom: 30, ComExp: -1, Mu: 0.2, Run: 4, OverlapFactor: 1}
	base := filepath.Join(dir, generator.Label("Native", p))
	files, err := (&generator.Native{Seed: 7}).Generate(context.Background(), p, base)
	require.NoError(t, err)
	return files.Network
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestClusterAnalysis(t *testing.T) {
	path := batchNetwork(t)
	a := &analyzer{mode: ModeCluster, algorithms: []cluster.Algorithm{&cluster.Louvain{Resolution: 1, Seed: 2}}, measures: compare.All()}

	done, err := a.processFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, done)

	lines := readLines(t, strings.TrimSuffix(path, generator.SuffixMETIS)+".analysis")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "300, 5, 15, -2, 20, 30, -2, 0.2, 0, 1, "), line)
		assert.Contains(t, line, `, Native, "12-3-4", `)
	}
	assert.Contains(t, lines[0], "Louvain, NMI, ")
	assert.Contains(t, lines[1], "Louvain, AR, ")
	assert.Contains(t, lines[2], "AvgCC, , ")

	done, err = a.processFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, done)
}

type brokenAlgorithm struct{}

func (brokenAlgorithm) Name() string          { return "Broken" }
func (brokenAlgorithm) SupportsOverlap() bool { return false }
func (brokenAlgorithm) Cluster(context.Context, *graph.Graph, io.Writer) (*partition.Partition, error) {
	return nil, errors.New("clustering failed")
}

func TestFailedAnalysisIsRetried(t *testing.T) {
	path := batchNetwork(t)
	afile := strings.TrimSuffix(path, generator.SuffixMETIS) + ".analysis"
	a := &analyzer{mode: ModeCluster, algorithms: []cluster.Algorithm{brokenAlgorithm{}}, measures: compare.All()}

	for i := 0; i < 2; i++ {
		done, err := a.processFile(context.Background(), path)
		assert.ErrorContains(t, err, "clustering failed")
		assert.False(t, done)
		assert.NoFileExists(t, afile)
	}
}

func TestMetricsAnalysis(t *testing.T) {
	path := batchNetwork(t)
	a := &analyzer{mode: ModeMetrics}

	done, err := a.processFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, done)

	lines := readLines(t, strings.TrimSuffix(path, generator.SuffixMETIS)+".analysis1")
	require.Greater(t, len(lines), 2)
	assert.Contains(t, lines[0], `"12-3-4", Assort, , `)
	members := 0
	for _, line := range lines[1:] {
		cols := strings.Split(line, ", ")
		require.Len(t, cols, 16, line)
		assert.Equal(t, "Gini", cols[13])
		size, err := strconv.Atoi(cols[14])
		require.NoError(t, err)
		members += size
	}
	assert.Equal(t, 300, members)
}

func TestAnalyzeAll(t *testing.T) {
	path := batchNetwork(t)
	bad := filepath.Join(filepath.Dir(path), "unlabelled.metis.graph")
	require.NoError(t, os.WriteFile(bad, []byte("1 0\n\n"), 0o644))

	paths, err := expand([]string{filepath.Join(filepath.Dir(path), "*.metis.graph"), path})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	a := &analyzer{mode: ModeMetrics}
	var out bytes.Buffer
	require.NoError(t, a.analyzeAll(context.Background(), paths, 2, &out))
	assert.Contains(t, out.String(), path+"\nOk\n")
	assert.Contains(t, out.String(), bad+"\nErr ")

	out.Reset()
	require.NoError(t, a.analyzeAll(context.Background(), []string{path}, 1, &out))
	assert.Equal(t, path+"\nSkipped\n", out.String())
}

func TestAnalyzeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := (&analyzer{mode: ModeMetrics}).analyzeAll(ctx, []string{"x"}, 1, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestExpandBadPattern(t *testing.T) {
	_, err := expand([]string{"["})
	assert.Error(t, err)
}
