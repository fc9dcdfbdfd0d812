// lfr-overview prints size, degree and connectivity statistics of a network file.
package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/cmd/common"
	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/utils"
)

func main() {
	graphPtr := flag.String("g", "data/test.metis.graph", "Network file.")
	formatPtr := flag.String("f", "METIS", "Network format: METIS, LFR or EdgeListSpaceZero.")
	logOpts := common.LogFlags()
	flag.Parse()
	logOpts.Apply()

	format, err := graph.ParseFormat(*formatPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad format")
	}
	done := utils.Walltime("Read " + common.ExtractGraphName(*graphPtr))
	g, err := graph.ReadFile(*graphPtr, format)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot read " + *graphPtr)
	}
	done()
	fmt.Print(graph.ComputeOverview(g).String())
}
