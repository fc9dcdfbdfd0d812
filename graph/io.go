package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lfrbench/utils"
)

type Format int

const (
	METIS             Format = iota // Header "n m [fmt]", then one line of 1-based neighbours per node.
	LFR                             // 1-based "u v" per line, as written by the reference benchmark (network.dat).
	EdgeListSpaceZero               // 0-based "u v" per line.
)

var ErrFormat = errors.New("graph: malformed input")

func (f Format) String() string {
	switch f {
	case METIS:
		return "METIS"
	case LFR:
		return "LFR"
	case EdgeListSpaceZero:
		return "EdgeListSpaceZero"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "metis":
		return METIS, nil
	case "lfr":
		return LFR, nil
	case "edgelistspacezero", "edgelist-s0":
		return EdgeListSpaceZero, nil
	}
	return 0, fmt.Errorf("unknown graph format %q", s)
}

const maxLineBytes = 1 << 30

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), maxLineBytes)
	return scanner
}

func ReadFile(path string, format Format) (*Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var g *Graph
	switch format {
	case METIS:
		g, err = ReadMETIS(file)
	case LFR:
		g, err = ReadLFR(file)
	case EdgeListSpaceZero:
		g, err = ReadEdgeList(file, 0, 0)
	default:
		err = fmt.Errorf("unsupported format %v", format)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.Debug().Msg("Read " + path + " (" + format.String() + "): n=" + utils.V(g.NumberOfNodes()) + " m=" + utils.V(g.NumberOfEdges()))
	return g, nil
}

func WriteFile(path string, format Format, g *Graph) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(file, 1<<20)
	switch format {
	case METIS:
		err = WriteMETIS(w, g)
	case EdgeListSpaceZero:
		err = WriteEdgeListSpaceZero(w, g)
	default:
		err = fmt.Errorf("cannot write format %v", format)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadMETIS reads the METIS adjacency format. Vertex and edge weights are accepted and ignored.
func ReadMETIS(r io.Reader) (*Graph, error) {
	scanner := newScanner(r)
	fields := make([]string, 0, 64)

	lineNo := 0
	nextLine := func() ([]byte, bool) {
		for scanner.Scan() {
			lineNo++
			line := scanner.Bytes()
			if len(line) > 0 && line[0] == '%' {
				continue
			}
			return line, true
		}
		return nil, false
	}

	header, ok := nextLine()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing METIS header", ErrFormat)
	}
	fields = utils.FastFields(fields, header)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: METIS header %q", ErrFormat, string(header))
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: METIS node count: %v", ErrFormat, err)
	}
	m, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: METIS edge count: %v", ErrFormat, err)
	}
	edgeWeights, vertexWeights, vertexSizes := false, 0, false
	if len(fields) >= 3 {
		fmtCode := fields[2]
		if len(fmtCode) < 3 {
			fmtCode = strings.Repeat("0", 3-len(fmtCode)) + fmtCode
		}
		fmtCode = fmtCode[len(fmtCode)-3:]
		vertexSizes = fmtCode[0] == '1'
		if fmtCode[1] == '1' {
			vertexWeights = 1
		}
		edgeWeights = fmtCode[2] == '1'
	}
	if len(fields) >= 4 && vertexWeights > 0 {
		if vertexWeights, err = strconv.Atoi(fields[3]); err != nil {
			return nil, fmt.Errorf("%w: METIS ncon: %v", ErrFormat, err)
		}
	}

	b := NewBuilder(n)
	for u := 0; u < n; u++ {
		line, ok := nextLine()
		if !ok {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: METIS ended after %d of %d nodes", ErrFormat, u, n)
		}
		fields = utils.FastFields(fields, line)
		i := vertexWeights
		if vertexSizes {
			i++
		}
		for ; i < len(fields); i++ {
			v, err := strconv.ParseUint(fields[i], 10, 32)
			if err != nil || v == 0 || int(v) > n {
				return nil, fmt.Errorf("%w: line %d: bad neighbour %q", ErrFormat, lineNo, fields[i])
			}
			b.AddArc(uint32(u), uint32(v-1))
			if edgeWeights {
				i++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	g := b.Build()
	if g.NumberOfEdges() != m {
		log.Warn().Msg("METIS header declares " + utils.V(m) + " edges, read " + utils.V(g.NumberOfEdges()))
	}
	return g, nil
}

func WriteMETIS(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", g.NumberOfNodes(), g.NumberOfEdges()); err != nil {
		return err
	}
	var buf []byte
	for u := 0; u < g.NumberOfNodes(); u++ {
		buf = buf[:0]
		for i, v := range g.Neighbours(uint32(u)) {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, uint64(v)+1, 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadLFR reads the reference benchmark's network.dat: 1-based pairs, usually both directions.
func ReadLFR(r io.Reader) (*Graph, error) {
	return readPairs(r, 1, 0)
}

// ReadEdgeList reads "u v" pairs with the given id of the first node.
// n == 0 infers the node count from the largest id.
func ReadEdgeList(r io.Reader, firstNode uint32, n int) (*Graph, error) {
	return readPairs(r, firstNode, n)
}

func readPairs(r io.Reader, firstNode uint32, n int) (*Graph, error) {
	scanner := newScanner(r)
	fields := make([]string, 0, 4)
	b := NewBuilder(n)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 || line[0] == '#' || line[0] == '%' {
			continue
		}
		fields = utils.FastFields(fields, line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrFormat, lineNo, string(line))
		}
		u, okU := utils.ToIntStr(fields[0])
		v, okV := utils.ToIntStr(fields[1])
		if !okU || !okV {
			return nil, fmt.Errorf("%w: line %d: %q", ErrFormat, lineNo, string(line))
		}
		if u < firstNode || v < firstNode {
			return nil, fmt.Errorf("%w: line %d: id below %d", ErrFormat, lineNo, firstNode)
		}
		u -= firstNode
		v -= firstNode
		if n > 0 && (int(u) >= n || int(v) >= n) {
			return nil, fmt.Errorf("%w: line %d: id beyond %d nodes", ErrFormat, lineNo, n)
		}
		b.AddArc(u, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// WriteEdgeListSpaceZero writes each undirected edge once as "u v", 0-based.
func WriteEdgeListSpaceZero(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	var err error
	g.ForEdges(func(u, v uint32) {
		if err != nil {
			return
		}
		buf = strconv.AppendUint(buf[:0], uint64(u), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(v), 10)
		buf = append(buf, '\n')
		_, err = bw.Write(buf)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
