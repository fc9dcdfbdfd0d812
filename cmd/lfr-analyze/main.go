// lfr-analyze revisits networks left by lfr-gen: it clusters them (-mode cluster) or measures their structure
// (-mode metrics), one analysis file per network. Networks that already have one are skipped, so several
// processes can share a directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ScottSallinen/lfrbench/cluster"
	"github.com/ScottSallinen/lfrbench/cmd/common"
	"github.com/ScottSallinen/lfrbench/compare"
	"github.com/ScottSallinen/lfrbench/config"
	"github.com/ScottSallinen/lfrbench/generator"
	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/metrics"
	"github.com/ScottSallinen/lfrbench/partition"
	"github.com/ScottSallinen/lfrbench/results"
	"github.com/ScottSallinen/lfrbench/utils"
)

const (
	ModeCluster = "cluster"
	ModeMetrics = "metrics"
)

// Exponents are not part of the file label; every analysed sweep used these.
const (
	analysisDegExp = -2
	analysisComExp = -2
)

type analyzer struct {
	mode       string
	algorithms []cluster.Algorithm
	measures   []compare.Measure
}

func (a *analyzer) suffix() string {
	if a.mode == ModeMetrics {
		return ".analysis1"
	}
	return ".analysis"
}

// Row prefix of every analysis line.
func prefix(path string, gen string, p generator.Params, g *graph.Graph) []any {
	var run any = 0
	if id := generator.RunID(path); id != "" {
		run = `"` + id + `"`
	}
	return []any{p.N, p.MinDeg, p.MaxDeg, analysisDegExp, p.MinCom, p.MaxCom, analysisComExp, p.Mu,
		p.OverlapNodes, p.OverlapFactor, g.NumberOfEdges(), gen, run}
}

// processFile reports false when the network was already analysed, possibly by someone else while we loaded it.
func (a *analyzer) processFile(ctx context.Context, path string) (bool, error) {
	gen, p, files, err := generator.FilesFromPath(path)
	if err != nil {
		return false, err
	}
	afile := results.AnalysisPath(path, a.suffix())
	if results.Analysed(afile) {
		return false, nil
	}
	if a.mode == ModeMetrics {
		// Read as a cover either way; a partition file is a cover with one subset per line.
		files.Overlapping = true
	}
	g, truth, err := generator.Load(files)
	if err != nil {
		return false, err
	}

	out, err := results.ClaimAnalysis(afile)
	if errors.Is(err, results.ErrAlreadyAnalysed) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	defer out.Close()

	pref := prefix(path, gen, p, g)
	row := func(values ...any) error {
		return out.Row(append(pref[:len(pref):len(pref)], values...)...)
	}
	switch a.mode {
	case ModeCluster:
		err = a.clusterRows(ctx, g, truth, p.Overlapping(), afile, row)
	case ModeMetrics:
		err = metricsRows(g, truth, row)
	default:
		err = fmt.Errorf("unknown mode %q", a.mode)
	}
	if err != nil {
		// Give the claim back so a later run retries the network.
		out.Close()
		return false, errors.Join(err, os.Remove(afile))
	}
	return true, out.Close()
}

func (a *analyzer) clusterRows(ctx context.Context, g *graph.Graph, truth *partition.Cover, overlapping bool, afile string, row func(...any) error) error {
	for _, alg := range a.algorithms {
		if alg.Name() == "Louvain" && overlapping {
			log.Info().Msg("Overlapping comm not supported; skip")
			continue
		}
		found, err := a.runAlgorithm(ctx, alg, g, afile)
		if err != nil {
			return err
		}
		for _, m := range a.measures {
			if m.Name() == "AR" && overlapping {
				continue
			}
			score, err := m.Similarity(partition.CoverFromPartition(found), truth)
			if err != nil {
				return err
			}
			if err := row(alg.Name(), m.Name(), score); err != nil {
				return err
			}
		}
	}
	return row("AvgCC", "", metrics.AverageLocalClustering(g))
}

func (a *analyzer) runAlgorithm(ctx context.Context, alg cluster.Algorithm, g *graph.Graph, afile string) (*partition.Partition, error) {
	defer utils.Walltime(alg.Name())()
	var logTo io.Writer = io.Discard
	if alg.Name() == "Infomap" {
		lf, err := os.Create(afile + "infomap")
		if err != nil {
			return nil, err
		}
		defer lf.Close()
		logTo = lf
	}
	return alg.Cluster(ctx, g, logTo)
}

func metricsRows(g *graph.Graph, truth *partition.Cover, row func(...any) error) error {
	if err := row("Assort", "", metrics.DegreeAssortativity(g)); err != nil {
		return err
	}
	for _, c := range metrics.GiniPerCommunity(g, truth) {
		if err := row("Gini", c.Size, c.Gini); err != nil {
			return err
		}
	}
	return nil
}

// Expands the patterns; paths matched by several patterns are kept once.
func expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	paths := make([]string, 0)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// analyzeAll runs best effort over paths with up to workers at a time, printing one status per path to w.
// Only cancellation of ctx is returned as an error.
func (a *analyzer) analyzeAll(ctx context.Context, paths []string, workers int, w io.Writer) error {
	var mu sync.Mutex
	report := func(path, status string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "%s\n%s\n", path, status)
	}

	var eg errgroup.Group
	eg.SetLimit(max(workers, 1))
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			done, err := a.processFile(ctx, path)
			switch {
			case err != nil:
				log.Debug().Err(err).Msg(path)
				report(path, "Err "+err.Error())
			case done:
				report(path, "Ok")
			default:
				report(path, "Skipped")
			}
			return nil
		})
	}
	eg.Wait()
	return ctx.Err()
}

func main() {
	modePtr := flag.String("mode", ModeCluster, "Analysis to run: cluster (Infomap, Louvain, NMI, AR, AvgCC) or metrics (assortativity, Gini).")
	workersPtr := flag.Int("j", 1, "Networks analysed concurrently.")
	threadPtr := flag.Int("omp", 10, "OMP_NUM_THREADS for native tools inside a SLURM job.")
	seedPtr := flag.Int64("seed", 0, "Seed for shuffling and clustering. 0 draws fresh seeds.")
	bins := common.BinaryFlags(true)
	logOpts := common.LogFlags()
	flag.Parse()
	logOpts.Apply()

	if host, err := os.Hostname(); err == nil {
		log.Info().Msg("HOST: " + host)
	}
	env := config.FromEnv()
	if err := env.ApplyOMP(*threadPtr); err != nil {
		log.Fatal().Err(err).Msg("Cannot set OMP_NUM_THREADS")
	}

	a := &analyzer{mode: *modePtr}
	switch *modePtr {
	case ModeCluster:
		cfg := cluster.Config{InfomapBinary: *bins.InfomapPtr, TempBase: env.TempBase(), TimeWrapper: bins.TimeWrapper(), Seed: *seedPtr}
		for _, name := range []string{"Infomap", "Louvain"} {
			alg, err := cluster.ByName(name, cfg)
			if err != nil {
				log.Fatal().Err(err).Msg("Bad algorithm")
			}
			a.algorithms = append(a.algorithms, alg)
		}
		a.measures = compare.All()
	case ModeMetrics:
	default:
		log.Fatal().Msg("Unknown mode " + *modePtr)
	}

	if flag.NArg() == 0 {
		log.Fatal().Msg("Pass network file patterns, e.g. 'networks_*/proc*/*of1-*.metis.graph'")
	}
	paths, err := expand(flag.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("Bad pattern")
	}
	seed := *seedPtr
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	utils.Shuffle(rand.New(rand.NewSource(seed)), paths)
	log.Info().Msg("Networks: " + utils.V(len(paths)))

	ctx, stop := common.SignalContext()
	defer stop()
	if err := a.analyzeAll(ctx, paths, *workersPtr, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Interrupted")
	}
}
