package stats

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Jobs from this one on ran the reference generator with a single seed per network already.
const SingleSeedCutoffJob = 3560659

const (
	seedKeyPrefix = 10
	seedColGen    = 11
	seedColRun    = 12
)

// Job id of a quoted "job-proc-run" run column; false for anything else (e.g. a plain 0).
func jobOf(run string) (int, bool) {
	if !strings.HasPrefix(run, `"`) {
		return 0, false
	}
	job, _, _ := strings.Cut(run[1:], "-")
	v, err := strconv.Atoi(job)
	return v, err == nil
}

// SeedFilter keeps one random row per parameter setting among the reference generator rows of jobs before
// cutoffJob, which were run with several seeds. Other rows pass through unchanged, first. Rows mentioning
// None are dropped. Grouped rows come out ordered by their key (parameter columns, label and sublabel).
func SeedFilter(r io.Reader, w io.Writer, rng *rand.Rand, cutoffJob int) error {
	bw := bufio.NewWriter(w)
	type keyed struct {
		key    string
		values []string
	}
	data := make([]keyed, 0)

	scanner := newScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.Contains(line, "None") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, ",")
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		if len(values) <= seedColRun {
			return fmt.Errorf("%w: line %d: %d columns", ErrInput, lineNo, len(values))
		}
		job, ok := jobOf(values[seedColRun])
		if !ok || job >= cutoffJob || values[seedColGen] != "Orig" {
			bw.WriteString(strings.TrimSpace(line) + "\n")
			continue
		}
		key := append(append([]string{}, values[:seedKeyPrefix]...), values[min(13, len(values)):min(15, len(values))]...)
		data = append(data, keyed{strings.Join(key, "-"), values})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	sort.SliceStable(data, func(i, j int) bool { return data[i].key < data[j].key })
	for start := 0; start < len(data); {
		end := start + 1
		for end < len(data) && data[end].key == data[start].key {
			end++
		}
		pick := data[start+rng.Intn(end-start)]
		bw.WriteString(strings.Join(pick.values, ", ") + "\n")
		start = end
	}
	return bw.Flush()
}
