// Package stats holds the post-processing filters over benchmark logs: quantile summaries for plotting,
// seed filtering of result rows, convergence of rewiring runs and community assignment costs.
package stats

import (
	"bufio"
	"errors"
	"io"
	"math"
	"sort"
)

var ErrInput = errors.New("stats: malformed input")

// Ascending, NaN last.
func sortFloats(x []float64) {
	sort.Slice(x, func(i, j int) bool {
		if math.IsNaN(x[j]) {
			return !math.IsNaN(x[i])
		}
		return x[i] < x[j]
	})
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<24)
	return scanner
}
