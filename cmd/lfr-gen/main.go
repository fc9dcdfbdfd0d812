// lfr-gen only generates: every network of the large-network sweep is kept next to its log,
// for lfr-analyze to pick up later.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/cmd/common"
	"github.com/ScottSallinen/lfrbench/config"
	"github.com/ScottSallinen/lfrbench/generator"
	"github.com/ScottSallinen/lfrbench/results"
	"github.com/ScottSallinen/lfrbench/utils"
)

// Tool output of the current network; the generators keep writing to it while the target changes per label.
type redirect struct {
	w io.Writer
}

func (r *redirect) Write(p []byte) (int, error) {
	if r.w == nil {
		return len(p), nil
	}
	return r.w.Write(p)
}

type options struct {
	sweep         config.Sweep
	logDir        string
	logName       string
	overlapFactor int
	genConfig     generator.Config
}

func runGen(ctx context.Context, opts options) error {
	toolLog := &redirect{}
	cfg := opts.genConfig
	cfg.Log = toolLog
	gens := make([]generator.Generator, 0, len(opts.sweep.Generators))
	for _, name := range opts.sweep.Generators {
		g, err := generator.ByName(name, cfg)
		if err != nil {
			return err
		}
		gens = append(gens, g)
	}

	out, err := results.OpenAppend(opts.logDir + opts.logName)
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
				p := s.Params(n, mu, run, opts.overlapFactor)
				log.Info().Msg(utils.V(n) + " " + utils.V(p.MaxDeg) + " " + utils.V(mu))

				for _, gen := range gens {
					if err := ctx.Err(); err != nil {
						return err
					}
					if gen.Name() == "Native" && p.Overlapping() {
						log.Warn().Msg("Overlapping communities not supported by Native; skip")
						continue
					}
					label := generator.Label(gen.Name(), p)
					log.Info().Msg("Generate. Algo: " + gen.Name() + ", " + p.String())
					if err := generate(ctx, gen, p, opts.logDir, label, toolLog); err != nil {
						if ctx.Err() != nil {
							return ctx.Err()
						}
						log.Error().Err(err).Msg("Failed " + label)
					}
				}
			}
		}
	}
	return out.Close()
}

func generate(ctx context.Context, gen generator.Generator, p generator.Params, logDir, label string, toolLog *redirect) error {
	lf, err := os.Create(logDir + "gen_" + label)
	if err != nil {
		return err
	}
	toolLog.w = lf
	defer func() { toolLog.w = nil }()

	_, err = gen.Generate(ctx, p, logDir+label)
	return errors.Join(err, lf.Close())
}

func main() {
	origPtr := flag.Bool("o", false, "Generate with the reference LFR benchmark.")
	emPtr := flag.Bool("e", false, "Generate with the external-memory LFR generator.")
	nativePtr := flag.Bool("n", false, "Generate with the in-process generator.")
	sweepPtr := flag.String("sweep", "", "YAML sweep file; keys not set keep the built-in generation sweep.")
	logPtr := flag.String("log", "cluster_stats.csv", "Log file in the output directory. Inside a SLURM job the job and process ids are added.")
	scratchPtr := flag.String("scratch", "/scratch", "Scratch root for per-job output directories.")
	threadPtr := flag.Int("omp", 8, "OMP_NUM_THREADS for native tools inside a SLURM job.")
	seedPtr := flag.Int64("seed", 0, "Seed for the Native generator. 0 draws a fresh one.")
	memPtr := flag.String("mem", "6Gi", "Memory budget for pa_lfr (-b).")
	ccPtr := flag.Float64("C", 0, "Average clustering coefficient asked of the reference benchmark; 0 leaves it out.")
	bins := common.BinaryFlags(true)
	logOpts := common.LogFlags()
	flag.Parse()
	logOpts.Apply()

	sweep := config.GenerateOnlySweep()
	if *sweepPtr != "" {
		var err error
		if sweep, err = config.LoadSweep(*sweepPtr, sweep); err != nil {
			log.Fatal().Err(err).Msg("Bad sweep")
		}
	}
	gens := make([]string, 0, 3)
	if *origPtr {
		gens = append(gens, "Orig")
	}
	if *emPtr {
		gens = append(gens, "EM")
	}
	if *nativePtr {
		gens = append(gens, "Native")
	}
	if len(gens) == 0 {
		log.Fatal().Msg("Select at least one generator with -o, -e or -n")
	}
	sweep.Generators = gens
	log.Info().Msg("Generators: " + strings.Join(gens, ", "))
	if host, err := os.Hostname(); err == nil {
		log.Info().Msg("HOST: " + host)
	}

	env := config.FromEnv()
	if err := env.ApplyOMP(*threadPtr); err != nil {
		log.Fatal().Err(err).Msg("Cannot set OMP_NUM_THREADS")
	}
	opts := options{
		sweep:         sweep,
		logDir:        env.NetworkDir(*scratchPtr),
		logName:       env.LogName(*logPtr),
		overlapFactor: env.OverlapFactor(gens),
		genConfig: generator.Config{
			OrigBinary: *bins.OrigPtr, EMBinary: *bins.EMPtr, EMMemory: *memPtr,
			TempBase: env.TempBase(), TimeWrapper: bins.TimeWrapper(), Clustering: *ccPtr, Seed: *seedPtr,
		},
	}

	ctx, stop := common.SignalContext()
	defer stop()
	done := utils.Walltime("lfr-gen")
	if err := runGen(ctx, opts); err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}
	done()
}
