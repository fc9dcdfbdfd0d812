package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ScottSallinen/lfrbench/utils"
)

// Columns after the iteration number.
const (
	colDups = iota
	colRnds
	colComWithDup
	colComWithRnd
	colNoComs
	colNoEdges
	convColumns
)

const convThreshold = 1e-3

// ConvergenceRate reads per-iteration rewiring counters "iter dups rnds comWithDup comWithRnd noComs noEdges" of
// several runs and writes, for every iteration, five quantiles of the share of duplicate edges over all runs.
// Runs that already stopped count as converged (0 duplicates). A final comment lists, per quantile, the first
// iteration where it drops below 1e-3.
func ConvergenceRate(r io.Reader, w io.Writer) error {
	iters := make([][][convColumns]int64, 0)

	scanner := newScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != convColumns+1 {
			return fmt.Errorf("%w: line %d: expected %d columns, got %d", ErrInput, lineNo, convColumns+1, len(fields))
		}
		var data [convColumns + 1]int64
		for i, f := range fields {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: line %d: %v", ErrInput, lineNo, err)
			}
			data[i] = v
		}
		for int64(len(iters)) < data[0] {
			iters = append(iters, nil)
		}
		if len(iters) == 0 {
			return fmt.Errorf("%w: line %d: iterations start at 1", ErrInput, lineNo)
		}
		var point [convColumns]int64
		copy(point[:], data[1:])
		iters[len(iters)-1] = append(iters[len(iters)-1], point)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(iters) == 0 {
		return fmt.Errorf("%w: no data", ErrInput)
	}

	maxPoints := 0
	for _, it := range iters {
		maxPoints = max(maxPoints, len(it))
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Found at most %d data points\n", maxPoints)

	var firstBelow [5]int
	for i := range firstBelow {
		firstBelow[i] = len(iters) + 10
	}

	conv := make([]float64, maxPoints)
	for it := 1; it <= len(iters); it++ {
		points := iters[it-1]
		for i := range conv {
			conv[i] = 0
			if i < len(points) {
				conv[i] = float64(points[i][colDups]) / float64(points[i][colNoEdges])
			}
		}
		sortFloats(conv)

		bw.WriteString(strconv.Itoa(it))
		for x := 0; x < 5; x++ {
			q := conv[int(float64(maxPoints-1)/4*float64(x))]
			if q < convThreshold {
				firstBelow[x] = min(firstBelow[x], it)
			}
			bw.WriteString(" " + utils.FormatFloat(q))
		}
		bw.WriteString("\n")
	}

	bw.WriteString("# below:")
	for _, fb := range firstBelow {
		bw.WriteString(" " + strconv.Itoa(fb))
	}
	bw.WriteString("\n")
	return bw.Flush()
}
