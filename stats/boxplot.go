package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/ScottSallinen/lfrbench/utils"
)

const (
	minBoxplotValues = 25
	boxplotSlices    = 5
)

type countedValue struct {
	cnt   int
	value float64
}

// Boxplot reads "key cnt value" lines, grouped by runs of equal keys. Each group is ordered by cnt, and the
// values of its first and its last fifth are summarised as "key count min q1 median q3 max".
// Both blocks are written one after the other, separated by "\n\n\nT\n". Groups too small to split are reported
// with a comment line and skipped.
func Boxplot(r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	var blocks [2]strings.Builder

	currentKey := ""
	haveKey := false
	values := make([]countedValue, 0)

	output := func() {
		if !haveKey {
			return
		}
		if len(values) < minBoxplotValues {
			fmt.Fprintf(bw, "# %s has only %d values; skip\n", currentKey, len(values))
			return
		}
		slices.SortStableFunc(values, func(a, b countedValue) int { return a.cnt - b.cnt })
		k := len(values) / boxplotSlices
		parts := [2][]countedValue{values[:k], values[len(values)-(len(values)+boxplotSlices-1)/boxplotSlices:]}
		for i, part := range parts {
			tvalues := make([]float64, len(part))
			for j := range part {
				tvalues[j] = part[j].value
			}
			sortFloats(tvalues)
			blocks[i].WriteString(currentKey + " " + strconv.Itoa(len(tvalues)))
			for x := 0; x < 5; x++ {
				blocks[i].WriteString(" " + utils.FormatFloat(tvalues[utils.RoundIndex(float64(x)/4*float64(len(tvalues)-1))]))
			}
			blocks[i].WriteString("\n")
		}
	}

	scanner := newScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return fmt.Errorf("%w: line %d: expected key, count and value", ErrInput, lineNo)
		}
		cnt, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInput, lineNo, err)
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInput, lineNo, err)
		}

		if !haveKey || fields[0] != currentKey {
			output()
			currentKey, haveKey = fields[0], true
			values = values[:0]
		}
		values = append(values, countedValue{cnt, value})
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	output()

	bw.WriteString(blocks[0].String() + "\n\n\nT\n" + blocks[1].String() + "\n")
	return bw.Flush()
}
