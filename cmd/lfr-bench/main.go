// lfr-bench generates LFR networks over a parameter sweep, clusters each one and logs how well the planted
// communities were recovered.
package main

import (
	"context"
	"flag"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/cluster"
	"github.com/ScottSallinen/lfrbench/cmd/common"
	"github.com/ScottSallinen/lfrbench/compare"
	"github.com/ScottSallinen/lfrbench/config"
	"github.com/ScottSallinen/lfrbench/external"
	"github.com/ScottSallinen/lfrbench/generator"
	"github.com/ScottSallinen/lfrbench/partition"
	"github.com/ScottSallinen/lfrbench/results"
	"github.com/ScottSallinen/lfrbench/utils"
)

type options struct {
	sweep     config.Sweep
	logPath   string
	tempBase  string
	genConfig generator.Config
	cluConfig cluster.Config
	toolLog   io.Writer
}

func runBench(ctx context.Context, opts options) error {
	gens := make([]generator.Generator, 0, len(opts.sweep.Generators))
	for _, name := range opts.sweep.Generators {
		g, err := generator.ByName(name, opts.genConfig)
		if err != nil {
			return err
		}
		gens = append(gens, g)
	}
	algs := make([]cluster.Algorithm, 0, len(opts.sweep.Algorithms))
	for _, name := range opts.sweep.Algorithms {
		a, err := cluster.ByName(name, opts.cluConfig)
		if err != nil {
			return err
		}
		algs = append(algs, a)
	}
	measures := make([]compare.Measure, 0, len(opts.sweep.Measures))
	for _, name := range opts.sweep.Measures {
		m, err := compare.ByName(name)
		if err != nil {
			return err
		}
		measures = append(measures, m)
	}

	out, err := results.OpenAppend(opts.logPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.Header(results.BenchHeader...); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}

	s := &opts.sweep
	for run := 0; run < s.Runs; run++ {
		for _, n := range s.NetworkSizes() {
			for _, mu := range s.Mus {
				p := s.Params(n, mu, run, 1)
				seq := generator.PowerlawDegreeSequence{Min: p.MinDeg, Max: p.MaxDeg, Exp: p.DegExp}
				if err := seq.Run(); err != nil {
					return err
				}
				p.AvgDeg = seq.ExpectedAverageDegree()
				log.Info().Msg(utils.V(n) + " " + utils.V(p.MaxDeg) + " " + utils.V(mu))

				for _, gen := range gens {
					if err := ctx.Err(); err != nil {
						return err
					}
					if err := benchNetwork(ctx, opts, out, gen, algs, measures, p); err != nil {
						if ctx.Err() != nil {
							return ctx.Err()
						}
						log.Error().Err(err).Msg("Skipping " + generator.Label(gen.Name(), p))
					}
				}
			}
		}
	}
	return out.Close()
}

// Whole exponents are logged as integers ("-2"), as the sweeps configure them.
func exponent(x float64) any {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return int(x)
	}
	return x
}

func benchNetwork(ctx context.Context, opts options, out *results.File, gen generator.Generator, algs []cluster.Algorithm, measures []compare.Measure, p generator.Params) error {
	dir, cleanup, err := external.TempDir(opts.tempBase, "lfr-bench-")
	if err != nil {
		return err
	}
	defer cleanup()

	log.Info().Msg("Generate. Algo: " + gen.Name() + ", " + p.String())
	files, err := gen.Generate(ctx, p, filepath.Join(dir, "network"))
	if err != nil {
		return err
	}
	g, truth, err := generator.Load(files)
	if err != nil {
		return err
	}

	for _, alg := range algs {
		found, err := alg.Cluster(ctx, g, opts.toolLog)
		if err != nil {
			return err
		}
		for _, m := range measures {
			score, err := m.Similarity(partition.CoverFromPartition(found), truth)
			if err != nil {
				return err
			}
			err = out.Row(p.N, p.MinDeg, p.MaxDeg, exponent(p.DegExp), p.MinCom, p.MaxCom, exponent(p.ComExp), p.Mu,
				gen.Name(), g.NumberOfEdges(), alg.Name(), m.Name(), score, p.Run)
			if err != nil {
				return err
			}
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	sweepPtr := flag.String("sweep", "", "YAML sweep file; keys not set keep the built-in clustering sweep.")
	logPtr := flag.String("log", "cluster_stats.csv", "Result file (appended to). Inside a SLURM job the job and process ids are added.")
	scratchPtr := flag.String("scratch", "/scratch", "Scratch root for per-job output directories.")
	threadPtr := flag.Int("omp", 10, "OMP_NUM_THREADS for native tools inside a SLURM job.")
	avgDegPtr := flag.Bool("avgdeg", true, "Pass the expected average degree (-k) to the reference benchmark instead of the minimum.")
	seedPtr := flag.Int64("seed", 0, "Seed for the Native generator, Infomap and Louvain. 0 draws fresh seeds.")
	memPtr := flag.String("mem", "", "Memory budget for pa_lfr (-b), e.g. 6Gi.")
	ccPtr := flag.Float64("C", 0, "Average clustering coefficient asked of the reference benchmark; 0 leaves it out.")
	bins := common.BinaryFlags(false)
	logOpts := common.LogFlags()
	flag.Parse()
	logOpts.Apply()

	env := config.FromEnv()
	if err := env.ApplyOMP(*threadPtr); err != nil {
		log.Fatal().Err(err).Msg("Cannot set OMP_NUM_THREADS")
	}

	sweep := config.DefaultSweep()
	if *sweepPtr != "" {
		var err error
		if sweep, err = config.LoadSweep(*sweepPtr, sweep); err != nil {
			log.Fatal().Err(err).Msg("Bad sweep")
		}
	}

	opts := options{
		sweep:    sweep,
		logPath:  env.NetworkDir(*scratchPtr) + env.LogName(*logPtr),
		tempBase: env.TempBase(),
		genConfig: generator.Config{
			OrigBinary: *bins.OrigPtr, EMBinary: *bins.EMPtr, EMMemory: *memPtr,
			TempBase: env.TempBase(), TimeWrapper: bins.TimeWrapper(), Log: os.Stderr,
			UseAverageDegree: *avgDegPtr, Clustering: *ccPtr, Seed: *seedPtr,
		},
		cluConfig: cluster.Config{
			InfomapBinary: *bins.InfomapPtr, TempBase: env.TempBase(), TimeWrapper: bins.TimeWrapper(), Seed: *seedPtr,
		},
		toolLog: os.Stderr,
	}

	ctx, stop := common.SignalContext()
	defer stop()
	done := utils.Walltime("lfr-bench")
	if err := runBench(ctx, opts); err != nil {
		log.Fatal().Err(err).Msg("Benchmark failed")
	}
	done()
}
