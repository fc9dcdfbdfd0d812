// lfr-conv-rate summarises the rewiring convergence logs: per iteration the quantiles of dups/noEdges.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/cmd/common"
	"github.com/ScottSallinen/lfrbench/stats"
)

func main() {
	logOpts := common.LogFlags()
	flag.Parse()
	logOpts.Apply()

	if err := common.Filter(flag.Args(), os.Stdout, stats.ConvergenceRate); err != nil {
		log.Fatal().Err(err).Msg("Convergence rate failed")
	}
}
