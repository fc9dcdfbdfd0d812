// lfr-seed-filter keeps one randomly chosen seed per parameter set for reference benchmark rows
// from jobs before the single-seed cutoff. Everything else passes through.
package main

import (
	"flag"
	"io"
	"math/rand"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/cmd/common"
	"github.com/ScottSallinen/lfrbench/stats"
)

func main() {
	cutoffPtr := flag.Int("cutoff", stats.SingleSeedCutoffJob, "First job id that already ran with a single seed.")
	seedPtr := flag.Int64("seed", 1, "Seed for picking the kept row.")
	logOpts := common.LogFlags()
	flag.Parse()
	logOpts.Apply()

	rng := rand.New(rand.NewSource(*seedPtr))
	filter := func(r io.Reader, w io.Writer) error {
		return stats.SeedFilter(r, w, rng, *cutoffPtr)
	}
	if err := common.Filter(flag.Args(), os.Stdout, filter); err != nil {
		log.Fatal().Err(err).Msg("Seed filter failed")
	}
}
