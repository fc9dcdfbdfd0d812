package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/graph"
	"github.com/ScottSallinen/lfrbench/metrics"
	"github.com/ScottSallinen/lfrbench/partition"
	"github.com/ScottSallinen/lfrbench/utils"
)

var errAssignment = errors.New("generator: no community can hold node")

const defaultMaxAttempts = 10

// Native is an in-process LFR generator: power-law degrees and community sizes, nodes placed into communities
// big enough for their internal degree, then a configuration model inside every community and one across them.
// Self loops and multi-edges are rejected, so realised degrees can be slightly below the drawn ones.
// Successive Generate calls continue one random stream, so a fixed Seed reproduces a whole sweep. Not safe for
// concurrent use.
type Native struct {
	Seed        int64 // 0 picks one from the clock.
	MaxAttempts int   // Full redraws when the assignment gets stuck; 0 means 10.

	rng *rand.Rand
}

func (*Native) Name() string { return "Native" }

func (nt *Native) Generate(ctx context.Context, p Params, outBase string) (Files, error) {
	if nt.rng == nil {
		seed := nt.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		nt.rng = rand.New(rand.NewSource(seed))
	}
	done := utils.Walltime("NativeLFR")
	g, part, err := nt.Build(ctx, p, nt.rng)
	done()
	if err != nil {
		return Files{}, err
	}
	if e := log.Debug(); e.Enabled() {
		minDeg, maxDeg, avgDeg := metrics.DegreeSummary(g)
		e.Msg("Native LFR degrees: min " + utils.V(minDeg) + " max " + utils.V(maxDeg) + " avg " + utils.F("%.3f", avgDeg))
	}

	files := FilesFor(nt.Name(), outBase, false)
	if err := utils.EnsureParent(files.Network); err != nil {
		return Files{}, err
	}
	if err := graph.WriteFile(files.Network, graph.METIS, g); err != nil {
		return Files{}, err
	}
	if err := partition.WritePartitionFile(files.Communities, part); err != nil {
		return Files{}, err
	}
	return files, nil
}

func checkParams(p Params) error {
	switch {
	case p.Overlapping():
		return fmt.Errorf("%w: overlapping communities", ErrUnsupported)
	case p.N < 1:
		return fmt.Errorf("%w: n %d", ErrUnsupported, p.N)
	case p.MinDeg < 1 || p.MaxDeg < p.MinDeg || p.MaxDeg >= p.N:
		return fmt.Errorf("%w: degree range [%d, %d] for n %d", ErrUnsupported, p.MinDeg, p.MaxDeg, p.N)
	case p.MinCom < 1 || p.MaxCom < p.MinCom || p.MinCom > p.N:
		return fmt.Errorf("%w: community size range [%d, %d] for n %d", ErrUnsupported, p.MinCom, p.MaxCom, p.N)
	case p.Mu < 0 || p.Mu > 1:
		return fmt.Errorf("%w: mu %f", ErrUnsupported, p.Mu)
	}
	return nil
}

// Build generates in memory, retrying with fresh draws when some node fits no community.
func (nt *Native) Build(ctx context.Context, p Params, rng *rand.Rand) (*graph.Graph, *partition.Partition, error) {
	if err := checkParams(p); err != nil {
		return nil, nil, err
	}
	maxAttempts := nt.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		g, part, err := buildLFR(p, rng)
		if err == nil {
			return g, part, nil
		}
		if !errors.Is(err, errAssignment) || attempt >= maxAttempts {
			return nil, nil, fmt.Errorf("after %d attempts: %w", attempt, err)
		}
		log.Debug().Msg("Native LFR attempt " + utils.V(attempt) + " failed: " + err.Error())
	}
}

func buildLFR(p Params, rng *rand.Rand) (*graph.Graph, *partition.Partition, error) {
	degSeq := PowerlawDegreeSequence{Min: p.MinDeg, Max: p.MaxDeg, Exp: p.DegExp}
	if err := degSeq.Run(); err != nil {
		return nil, nil, err
	}
	degrees := degSeq.Sample(rng, p.N)

	comSeq := PowerlawDegreeSequence{Min: p.MinCom, Max: utils.Min(p.MaxCom, p.N), Exp: p.ComExp}
	if err := comSeq.Run(); err != nil {
		return nil, nil, err
	}
	sizes := communitySizes(rng, &comSeq, p.N, p.MaxCom)

	internal := make([]int, p.N)
	for u, d := range degrees {
		internal[u] = int(math.Round((1 - p.Mu) * float64(d)))
	}

	part, err := assignCommunities(rng, internal, sizes)
	if err != nil {
		return nil, nil, err
	}

	w := newWiring(p.N)
	subsets := part.Subsets()
	for c := range sizes {
		members := subsets[uint32(c)]
		stubs := make([]uint32, 0, len(members))
		for _, u := range members {
			for i := 0; i < internal[u]; i++ {
				stubs = append(stubs, u)
			}
		}
		w.pair(rng, stubs, nil)
	}
	stubs := make([]uint32, 0)
	for u, d := range degrees {
		for i := internal[u]; i < d; i++ {
			stubs = append(stubs, uint32(u))
		}
	}
	w.pair(rng, stubs, func(u, v uint32) bool { return part.SubsetOf(u) != part.SubsetOf(v) })

	if w.dropped > 0 {
		log.Debug().Msg("Native LFR dropped " + utils.V(w.dropped) + " stubs that could not be paired")
	}
	return w.builder.Build(), part, nil
}

// Draws community sizes until they cover n. The last one is cut to fit; if that leaves it below the minimum,
// its members are spread over the others while they have room.
func communitySizes(rng *rand.Rand, seq *PowerlawDegreeSequence, n int, maxSize int) []int {
	sizes := make([]int, 0)
	sum := 0
	for sum < n {
		s := seq.Draw(rng)
		if sum+s > n {
			s = n - sum
		}
		sizes = append(sizes, s)
		sum += s
	}
	last := sizes[len(sizes)-1]
	if len(sizes) == 1 || last >= seq.Min {
		return sizes
	}
	room := 0
	for _, s := range sizes[:len(sizes)-1] {
		room += maxSize - s
	}
	if room < last {
		log.Debug().Msg("Native LFR: last community has " + utils.V(last) + " members, below the minimum " + utils.V(seq.Min))
		return sizes
	}
	sizes = sizes[:len(sizes)-1]
	for last > 0 {
		i := rng.Intn(len(sizes))
		if sizes[i] < maxSize {
			sizes[i]++
			last--
		}
	}
	return sizes
}

// Places nodes in decreasing internal degree into a random community with a free slot that is strictly
// larger than the node's internal degree. Capacities sum to the number of nodes, so every slot gets filled.
// As the need drops, the window of large enough communities only grows.
func assignCommunities(rng *rand.Rand, internal []int, sizes []int) (*partition.Partition, error) {
	bySize := utils.SortGiveIndexesLargestFirst(sizes)
	free := make([]int, len(sizes))
	copy(free, sizes)
	part := partition.NewPartition(len(internal))

	eligible := 0 // Communities bySize[:eligible] are larger than the current need.
	for _, u := range utils.SortGiveIndexesLargestFirst(internal) {
		need := internal[u]
		for eligible < len(bySize) && sizes[bySize[eligible]] > need {
			eligible++
		}
		if eligible == 0 {
			return nil, fmt.Errorf("%w: internal degree %d, largest community %d", errAssignment, need, sizes[bySize[0]])
		}
		c := -1
		for try := 0; try < 16; try++ {
			if cand := bySize[rng.Intn(eligible)]; free[cand] > 0 {
				c = cand
				break
			}
		}
		if c < 0 {
			for _, cand := range bySize[:eligible] {
				if free[cand] > 0 {
					c = cand
					break
				}
			}
		}
		if c < 0 {
			return nil, fmt.Errorf("%w: internal degree %d, large communities are full", errAssignment, need)
		}
		free[c]--
		part.AddToSubset(uint32(c), uint32(u))
	}
	return part, nil
}

type wiring struct {
	builder *graph.Builder
	edges   map[uint64]struct{}
	dropped int
}

func newWiring(n int) *wiring {
	return &wiring{builder: graph.NewBuilder(n), edges: make(map[uint64]struct{})}
}

func (w *wiring) add(u, v uint32) bool {
	if u == v {
		return false
	}
	if u > v {
		u, v = v, u
	}
	key := uint64(u)<<32 | uint64(v)
	if _, ok := w.edges[key]; ok {
		return false
	}
	w.edges[key] = struct{}{}
	w.builder.AddEdge(u, v)
	return true
}

// Random matching of stubs. Rejected pairs go back into the pool for a few more rounds; what is left is dropped.
func (w *wiring) pair(rng *rand.Rand, stubs []uint32, accept func(u, v uint32) bool) {
	const rounds = 8
	for round := 0; round < rounds && len(stubs) > 1; round++ {
		utils.Shuffle(rng, stubs)
		left := stubs[:0]
		i := 0
		for ; i+1 < len(stubs); i += 2 {
			u, v := stubs[i], stubs[i+1]
			if (accept == nil || accept(u, v)) && w.add(u, v) {
				continue
			}
			left = append(left, u, v)
		}
		if i < len(stubs) {
			left = append(left, stubs[i])
		}
		if len(left) == len(stubs) && round > 0 {
			stubs = left
			break
		}
		stubs = left
	}
	w.dropped += len(stubs)
}
