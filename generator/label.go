package generator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ScottSallinen/lfrbench/graph"
)

var ErrBadLabel = errors.New("generator: path does not carry a network label")

const (
	SuffixLFRNetwork   = ".network.dat"
	SuffixLFRCommunity = ".comm.dat"
	SuffixMETIS        = ".metis.graph"
	SuffixPartition    = ".part"
)

// "NetworKit" is the name older files were written under; they are loaded like Native ones.
var labelRe = regexp.MustCompile(`(?:^|/)(EM|Orig|Native|NetworKit)_n(\d+)_kmin(\d+)_kmax(\d+)_mu(\d)_minc(\d+)_maxc(\d+)_on(\d+)_of(\d+)-(\d+)`)

var runIdRe = regexp.MustCompile(`networks_(\d+)/proc(\d+)/.+of\d+-(\d+)\.`)

func muTenths(mu float64) int {
	return int(math.Floor(mu*10 + 1e-9))
}

// Label names the output files of one generated network.
func Label(gen string, p Params) string {
	return fmt.Sprintf("%s_n%d_kmin%d_kmax%d_mu%d_minc%d_maxc%d_on%d_of%d-%d",
		gen, p.N, p.MinDeg, p.MaxDeg, muTenths(p.Mu), p.MinCom, p.MaxCom, p.OverlapNodes, p.OverlapFactor, p.Run)
}

// ParseLabel recovers the generator name and parameters encoded in a network file path.
// Exponents are not part of the label and are left zero.
func ParseLabel(path string) (gen string, p Params, err error) {
	m := labelRe.FindStringSubmatch(path)
	if m == nil {
		return "", p, fmt.Errorf("%w: %s", ErrBadLabel, path)
	}
	ints := make([]int, len(m)-2)
	for i := range ints {
		if ints[i], err = strconv.Atoi(m[i+2]); err != nil {
			return "", p, fmt.Errorf("%w: %s", ErrBadLabel, path)
		}
	}
	p = Params{
		N: ints[0], MinDeg: ints[1], MaxDeg: ints[2], Mu: float64(ints[3]) / 10,
		MinCom: ints[4], MaxCom: ints[5], OverlapNodes: ints[6], OverlapFactor: ints[7], Run: ints[8],
	}
	return m[1], p, nil
}

// RunID identifies a network written by a batch job as "job-proc-run"; empty when the path is not a batch output.
func RunID(path string) string {
	m := runIdRe.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return strings.Join(m[1:], "-")
}

// BasePath strips the network suffix.
func BasePath(path string) string {
	return strings.TrimSuffix(strings.TrimSuffix(path, SuffixMETIS), SuffixLFRNetwork)
}

// FilesFor lists where a generator leaves its output for outBase.
func FilesFor(gen string, outBase string, overlapping bool) Files {
	if gen == "Orig" {
		return Files{
			Network:            outBase + SuffixLFRNetwork,
			Communities:        outBase + SuffixLFRCommunity,
			NetworkFormat:      graph.LFR,
			CommunityFirstNode: 1,
			Overlapping:        overlapping,
		}
	}
	return Files{
		Network:       outBase + SuffixMETIS,
		Communities:   outBase + SuffixPartition,
		NetworkFormat: graph.METIS,
		Overlapping:   overlapping,
	}
}

// FilesFromPath locates the network and community file for a labelled network path.
func FilesFromPath(path string) (gen string, p Params, files Files, err error) {
	gen, p, err = ParseLabel(path)
	if err != nil {
		return gen, p, files, err
	}
	files = FilesFor(gen, BasePath(path), p.OverlapFactor > 1)
	if files.Network != path {
		return gen, p, files, fmt.Errorf("%w: %s is not a %s network file", ErrBadLabel, path, gen)
	}
	return gen, p, files, nil
}
