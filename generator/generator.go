// Package generator produces LFR benchmark networks with planted communities,
// either by running one of the native benchmark binaries or in process.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/external"
	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/partition"
	"github.com/ScottSallinen/lfrbench/utils"
)

var ErrUnsupported = errors.New("generator: unsupported parameters")

type Params struct {
	N       int
	MinDeg  int
	MaxDeg  int
	AvgDeg  float64 // Only used by Orig with UseAverageDegree.
	DegExp  float64 // Negative, e.g. -2.
	MinCom  int
	MaxCom  int
	ComExp  float64 // Negative, e.g. -1.
	Mu      float64
	Run     int

	OverlapNodes  int
	OverlapFactor int // Memberships per overlapping node; 1 (or 0) for a partition.
}

func (p Params) Overlapping() bool { return p.OverlapFactor > 1 }

func (p Params) String() string {
	return fmt.Sprintf("n: %d, minDeg: %d\tmaxDeg: %d\tmu:%.2f\tminCom: %d maxCom:%d", p.N, p.MinDeg, p.MaxDeg, p.Mu, p.MinCom, p.MaxCom)
}

// Files produced by a generator run.
type Files struct {
	Network            string
	Communities        string
	NetworkFormat      graph.Format
	CommunityFirstNode uint32
	Overlapping        bool
}

type Generator interface {
	Name() string
	// Generate writes the network and its ground truth next to outBase (a path prefix, see Label).
	Generate(ctx context.Context, p Params, outBase string) (Files, error)
}

// Config is shared by the generators built with ByName.
type Config struct {
	OrigBinary  string
	EMBinary    string
	EMMemory    string // pa_lfr -b, e.g. "6Gi"; empty leaves its default.
	TempBase    string
	TimeWrapper []string
	Log         io.Writer // Output of the native tools; nil discards it.

	UseAverageDegree bool    // Orig: pass -k AvgDeg instead of -mink.
	Clustering       float64 // Orig -C; 0 leaves it out.
	Seed             int64   // Native; 0 picks one.
}

func ByName(name string, cfg Config) (Generator, error) {
	switch name {
	case "Orig":
		return &Orig{Binary: cfg.OrigBinary, TempBase: cfg.TempBase, TimeWrapper: cfg.TimeWrapper, Log: cfg.Log, UseAverageDegree: cfg.UseAverageDegree, Clustering: cfg.Clustering}, nil
	case "EM":
		return &EM{Binary: cfg.EMBinary, Memory: cfg.EMMemory, TimeWrapper: cfg.TimeWrapper, Log: cfg.Log}, nil
	case "Native", "NetworKit":
		return &Native{Seed: cfg.Seed}, nil
	}
	return nil, fmt.Errorf("unknown generator %q", name)
}

// Orig runs the reference LFR benchmark. It always writes network.dat and community.dat to its working directory.
type Orig struct {
	Binary           string
	TempBase         string
	TimeWrapper      []string
	Log              io.Writer
	UseAverageDegree bool
	Clustering       float64 // Target average clustering coefficient (-C).
}

func (*Orig) Name() string { return "Orig" }

func (o *Orig) args(p Params) []string {
	var args []string
	if o.UseAverageDegree {
		args = external.Args("-N", p.N, "-k", p.AvgDeg)
	} else {
		args = external.Args("-N", p.N, "-mink", p.MinDeg)
	}
	args = append(args, external.Args("-maxk", p.MaxDeg, "-mu", p.Mu, "-t1", -p.DegExp, "-t2", -p.ComExp, "-minc", p.MinCom, "-maxc", p.MaxCom)...)
	if p.Overlapping() {
		args = append(args, external.Args("-on", p.OverlapNodes, "-om", p.OverlapFactor)...)
	}
	if o.Clustering > 0 {
		args = append(args, external.Args("-C", o.Clustering)...)
	}
	return args
}

func (o *Orig) Generate(ctx context.Context, p Params, outBase string) (Files, error) {
	dir, cleanup, err := external.TempDir(o.TempBase, "orig-lfr-")
	if err != nil {
		return Files{}, err
	}
	defer cleanup()

	cmd := &external.Command{
		Path: o.Binary, Args: o.args(p), Dir: dir,
		Stdout: o.Log, Stderr: o.Log, TimeWrapper: o.TimeWrapper,
		// The benchmark's exit status is unreliable; its outputs are checked instead.
		AllowFailure: true,
	}
	done := utils.Walltime("OrigLFR")
	err = cmd.Run(ctx)
	done()
	if err != nil {
		return Files{}, err
	}

	network, community := filepath.Join(dir, "network.dat"), filepath.Join(dir, "community.dat")
	if err := external.RequireFiles(network, community); err != nil {
		return Files{}, err
	}
	files := FilesFor(o.Name(), outBase, p.Overlapping())
	if err := utils.EnsureParent(files.Network); err != nil {
		return Files{}, err
	}
	if err := external.CopyFile(network, files.Network); err != nil {
		return Files{}, err
	}
	if err := external.CopyFile(community, files.Communities); err != nil {
		return Files{}, err
	}
	return files, nil
}

// EM runs the external-memory generator, which writes METIS and a 0-based partition (or cover) directly.
type EM struct {
	Binary      string
	Memory      string
	TimeWrapper []string
	Log         io.Writer
}

func (*EM) Name() string { return "EM" }

func (e *EM) args(p Params, files Files) []string {
	args := external.Args(
		"-n", p.N, "-c", p.N/utils.Max(p.MinCom, 1),
		"-i", p.MinDeg, "-a", p.MaxDeg, "-m", p.Mu,
		"-j", p.DegExp, "-z", p.ComExp,
		"-x", p.MinCom, "-y", p.MaxCom,
		"-o", files.Network, "-p", files.Communities,
	)
	if e.Memory != "" {
		args = append(args, "-b", e.Memory)
	}
	if p.OverlapNodes > 0 && p.Overlapping() {
		args = append(args, external.Args("-l", p.OverlapNodes, "-k", p.OverlapFactor)...)
	}
	return args
}

func (e *EM) Generate(ctx context.Context, p Params, outBase string) (Files, error) {
	files := FilesFor(e.Name(), outBase, p.Overlapping())
	if err := utils.EnsureParent(files.Network); err != nil {
		return Files{}, err
	}
	cmd := &external.Command{Path: e.Binary, Args: e.args(p, files), Stdout: e.Log, Stderr: e.Log, TimeWrapper: e.TimeWrapper}
	done := utils.Walltime("EMLFR")
	err := cmd.Run(ctx)
	done()
	if err != nil {
		return Files{}, err
	}
	if err := external.RequireFiles(files.Network, files.Communities); err != nil {
		return Files{}, err
	}
	return files, nil
}

// Load reads a generated network and its ground truth.
func Load(files Files) (*graph.Graph, *partition.Cover, error) {
	g, err := graph.ReadFile(files.Network, files.NetworkFormat)
	if err != nil {
		return nil, nil, err
	}
	var cover *partition.Cover
	if files.Overlapping {
		cover, err = partition.ReadCoverFile(files.Communities, files.CommunityFirstNode, 0)
	} else {
		var p *partition.Partition
		p, err = partition.ReadPartitionFile(files.Communities, files.CommunityFirstNode, 0)
		if err == nil {
			cover = partition.CoverFromPartition(p)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	if cover.NumberOfElements() > g.NumberOfNodes() {
		return nil, nil, fmt.Errorf("%s: ground truth has %d nodes, network %d", files.Communities, cover.NumberOfElements(), g.NumberOfNodes())
	}
	cover.Grow(g.NumberOfNodes())
	log.Debug().Msg("Loaded " + files.Network + ": n=" + utils.V(g.NumberOfNodes()) + " m=" + utils.V(g.NumberOfEdges()) + " communities=" + utils.V(len(cover.SubsetIds())))
	return g, cover, nil
}
