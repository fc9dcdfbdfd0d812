// Package results writes the comma separated benchmark and analysis logs.
package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/ScottSallinen/lfrbench/utils"
)

var ErrAlreadyAnalysed = errors.New("results: analysis file exists")

// Column sets written by the tools.
var (
	BenchHeader    = []string{"n", "minDeg", "maxDeg", "degExp", "minCom", "maxCom", "comExp", "mu", "Generator", "m", "ComAlg", "Comp", "score", "run"}
	AnalysisPrefix = []string{"n", "minDeg", "maxDeg", "degExp", "minCom", "maxCom", "comExp", "mu", "ovlNodes", "ovlFac", "m", "Generator", "run"}
)

const separator = ", "

// Writer joins values with ", ". It is not safe for concurrent use.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) line(fields []string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(strings.Join(fields, separator) + "\n")
}

func (w *Writer) Header(cols ...string) error {
	w.line(cols)
	return w.err
}

// Row formats floats with utils.FormatFloat (so a perfect score is "1.0") and everything else with %v.
// Callers pass strings for empty cells.
func (w *Writer) Row(values ...any) error {
	fields := make([]string, len(values))
	for i, v := range values {
		switch f := v.(type) {
		case float64:
			fields[i] = utils.FormatFloat(f)
		case float32:
			fields[i] = utils.FormatFloat(float64(f))
		default:
			fields[i] = fmt.Sprintf("%v", v)
		}
	}
	w.line(fields)
	return w.err
}

func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// File is a Writer that owns its file.
type File struct {
	*Writer
	f *os.File
}

// OpenAppend opens path for appending, creating it and its parent directory if needed.
func OpenAppend(path string) (*File, error) {
	if err := utils.EnsureParent(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{Writer: NewWriter(f), f: f}, nil
}

func (f *File) Name() string { return f.f.Name() }

func (f *File) Close() error {
	err := f.Flush()
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// AnalysisPath is the analysis file that belongs to a network file: the network suffix replaced by suffix.
func AnalysisPath(networkPath, suffix string) string {
	base := strings.Replace(networkPath, ".metis.graph", "", 1)
	base = strings.Replace(base, ".network.dat", "", 1)
	return base + suffix
}

// Analysed reports whether the analysis file already exists.
func Analysed(path string) bool {
	return utils.FileExists(path)
}

// ClaimAnalysis creates the analysis file exclusively, so that with several workers (or jobs) only one analyses
// a network. ErrAlreadyAnalysed if it exists.
func ClaimAnalysis(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAnalysed, path)
	}
	if err != nil {
		return nil, err
	}
	return &File{Writer: NewWriter(f), f: f}, nil
}
