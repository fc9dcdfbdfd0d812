// lfr-boxplot reduces "key cnt value" lines to five-number summaries of the first and last fifth of each group.
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

	if err := common.Filter(flag.Args(), os.Stdout, stats.Boxplot); err != nil {
		log.Fatal().Err(err).Msg("Boxplot failed")
	}
}
