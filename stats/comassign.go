package stats

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Row labels of the community assignment benchmark output, in output order.
var comAssignLabels = []string{"free", "hitsl", "hitsu"}

const comAssignRows = 10

// CommunityAssign summarises the community assignment benchmark. Its output has one matrix per label, each row
// ending in "# <label>". Using the first 10 rows of every matrix, it writes one line per column: the column
// number, then for every matrix the column mean, the mean as a share of all column means, and the population
// standard deviation relative to that same sum.
func CommunityAssign(r io.Reader, w io.Writer) error {
	mats := make([][][]float64, len(comAssignLabels))

	scanner := newScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		for i, label := range comAssignLabels {
			if !strings.HasSuffix(line, label) {
				continue
			}
			data, _, _ := strings.Cut(line, "#")
			fields := strings.Fields(data)
			if len(fields) == 0 {
				break
			}
			row := make([]float64, len(fields))
			for j, f := range fields {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return fmt.Errorf("%w: line %d: %v", ErrInput, lineNo, err)
				}
				row[j] = v
			}
			if len(mats[i]) > 0 && len(mats[i][0]) != len(row) {
				return fmt.Errorf("%w: line %d: %d columns, expected %d", ErrInput, lineNo, len(row), len(mats[i][0]))
			}
			mats[i] = append(mats[i], row)
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for i, m := range mats {
		if len(m) == 0 {
			return fmt.Errorf("%w: no %s rows", ErrInput, comAssignLabels[i])
		}
		if len(m) != len(mats[0]) || len(m[0]) != len(mats[0][0]) {
			return fmt.Errorf("%w: %s is %dx%d, %s is %dx%d", ErrInput,
				comAssignLabels[i], len(m), len(m[0]), comAssignLabels[0], len(mats[0]), len(mats[0][0]))
		}
	}

	cols := len(mats[0][0])
	type summary struct{ avg, share, std []float64 }
	sums := make([]summary, len(mats))
	for i, m := range mats {
		m = m[:min(comAssignRows, len(m))]
		s := summary{make([]float64, cols), make([]float64, cols), make([]float64, cols)}
		column := make([]float64, len(m))
		for c := 0; c < cols; c++ {
			for r := range m {
				column[r] = m[r][c]
			}
			s.avg[c] = stat.Mean(column, nil)
			s.std[c] = math.Sqrt(stat.PopVariance(column, nil))
		}
		total := floats.Sum(s.avg)
		for c := 0; c < cols; c++ {
			s.share[c] = s.avg[c] / total
			s.std[c] /= total
		}
		sums[i] = s
	}

	bw := bufio.NewWriter(w)
	for c := 0; c < cols; c++ {
		fmt.Fprintf(bw, "%d ", c+1)
		for _, s := range sums {
			fmt.Fprintf(bw, "%f %f %f    ", s.avg[c], s.share[c], s.std[c])
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}
