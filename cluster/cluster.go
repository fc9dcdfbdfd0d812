// Package cluster runs community detection on a network: Infomap as a native binary, Louvain in process.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/graph/community"
	exprand "golang.org/x/exp/rand"

	"github.com/ScottSallinen/lfrbench/external"
	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/partition"
	"github.com/ScottSallinen/lfrbench/utils"
)

var ErrUnsupported = errors.New("cluster: unsupported input")

type Algorithm interface {
	Name() string
	// Cluster returns a partition covering every node of g. Tool output, if any, goes to logTo.
	Cluster(ctx context.Context, g *graph.Graph, logTo io.Writer) (*partition.Partition, error)
	SupportsOverlap() bool
}

type Config struct {
	InfomapBinary string
	TempBase      string
	TimeWrapper   []string
	Seed          int64 // 0 draws a fresh seed per call.
	Resolution    float64
}

func ByName(name string, cfg Config) (Algorithm, error) {
	switch name {
	case "Infomap":
		return &Infomap{Binary: cfg.InfomapBinary, Seed: cfg.Seed, TempBase: cfg.TempBase, TimeWrapper: cfg.TimeWrapper}, nil
	case "Louvain":
		res := cfg.Resolution
		if res == 0 {
			res = 1
		}
		return &Louvain{Resolution: res, Seed: uint64(cfg.Seed)}, nil
	}
	return nil, fmt.Errorf("unknown algorithm %q", name)
}

// Infomap runs the two-level Infomap binary on an undirected, zero-based edge list.
type Infomap struct {
	Binary      string
	Seed        int64
	TempBase    string
	TimeWrapper []string
}

func (*Infomap) Name() string          { return "Infomap" }
func (*Infomap) SupportsOverlap() bool { return false }

// Infomap takes a signed 32 bit seed; draw one uniformly from [-2^31, 2^31].
func randomSeed() int64 {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return rng.Int63n(1<<32+1) - 1<<31
}

func (im *Infomap) args(seed int64, network, outDir string) []string {
	return external.Args("-s", seed, "-2", "-z", "--clu", network, outDir)
}

func (im *Infomap) Cluster(ctx context.Context, g *graph.Graph, logTo io.Writer) (*partition.Partition, error) {
	if g.NumberOfNodes() == 0 {
		return nil, fmt.Errorf("%w: empty graph", ErrUnsupported)
	}
	dir, cleanup, err := external.TempDir(im.TempBase, "infomap-")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	network := filepath.Join(dir, "network.txt")
	if err := graph.WriteFile(network, graph.EdgeListSpaceZero, g); err != nil {
		return nil, err
	}
	seed := im.Seed
	if seed == 0 {
		seed = randomSeed()
	}
	cmd := &external.Command{Path: im.Binary, Args: im.args(seed, network, dir), Stdout: logTo, Stderr: logTo, TimeWrapper: im.TimeWrapper}
	if err := cmd.Run(ctx); err != nil {
		return nil, err
	}

	log.Debug().Msg("Reading infomap")
	p, err := partition.ReadPartitionFile(filepath.Join(dir, "network.clu"), 0, 0)
	if err != nil {
		return nil, err
	}
	if p.NumberOfElements() > g.UpperNodeIdBound() {
		return nil, fmt.Errorf("infomap returned %d nodes for a graph of %d", p.NumberOfElements(), g.UpperNodeIdBound())
	}
	// Isolated nodes do not appear in the edge list.
	p.FillSingletons(g.UpperNodeIdBound())
	return p, nil
}

// Louvain is gonum's modularity optimisation on the whole graph.
type Louvain struct {
	Resolution float64
	Seed       uint64 // 0 draws a fresh seed per call.
}

func (*Louvain) Name() string          { return "Louvain" }
func (*Louvain) SupportsOverlap() bool { return false }

func (l *Louvain) Cluster(ctx context.Context, g *graph.Graph, _ io.Writer) (*partition.Partition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.NumberOfNodes() == 0 {
		return nil, fmt.Errorf("%w: empty graph", ErrUnsupported)
	}
	seed := l.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	ug := graph.ToGonum(g)
	reduced := community.Modularize(ug, l.Resolution, exprand.NewSource(seed))
	communities := reduced.Communities()

	p := partition.NewPartition(g.UpperNodeIdBound())
	for id, members := range communities {
		for _, node := range members {
			p.AddToSubset(uint32(id), uint32(node.ID()))
		}
	}
	p.FillSingletons(g.UpperNodeIdBound())
	if e := log.Debug(); e.Enabled() {
		e.Msg("Louvain: " + utils.V(len(communities)) + " communities, Q=" + utils.F("%.6f", community.Q(ug, communities, l.Resolution)))
	}
	return p, nil
}
