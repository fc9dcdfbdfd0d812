// lfr-comassign averages the free/hitsl/hitsu matrices of a community assignment benchmark log.
//
//	lfr-comassign <in> <out>
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

	if flag.NArg() != 2 {
		log.Fatal().Msg("Usage: lfr-comassign <in> <out>")
	}
	out, err := os.Create(flag.Arg(1))
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot create " + flag.Arg(1))
	}
	err = common.Filter(flag.Args()[:1], out, stats.CommunityAssign)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Community assignment summary failed")
	}
}
