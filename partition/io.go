package partition

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ScottSallinen/lfrbench/utils"
)

var ErrFormat = errors.New("partition: malformed input")

// Reads "node subset" lines, separated by any whitespace. Extra columns (e.g. Infomap's flow) are ignored.
// Node ids start at firstNode; subset ids are kept as written. n == 0 infers the size from the largest node id.
func ReadPartition(r io.Reader, firstNode uint32, n int) (*Partition, error) {
	p := NewPartition(n)
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) < 2 {
			return fmt.Errorf("%w: line %d: expected node and subset", ErrFormat, lineNo)
		}
		u, err := parseNode(fields[0], firstNode, n)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		s, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil || s == None {
			return fmt.Errorf("%w: line %d: bad subset %q", ErrFormat, lineNo, fields[1])
		}
		for int(u) >= p.NumberOfElements() {
			p.Extend()
		}
		p.AddToSubset(uint32(s), u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ReadClu reads Infomap's .clu output (zero-based nodes, "# ..." header lines).
func ReadClu(r io.Reader) (*Partition, error) {
	return ReadPartition(r, 0, 0)
}

// Reads "node s1 s2 ..." lines. A node may be repeated on several lines.
func ReadCover(r io.Reader, firstNode uint32, n int) (*Cover, error) {
	c := NewCover(n)
	err := scanLines(r, func(lineNo int, fields []string) error {
		u, err := parseNode(fields[0], firstNode, n)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		c.Grow(int(u) + 1)
		for _, f := range fields[1:] {
			s, err := strconv.ParseUint(f, 10, 32)
			if err != nil || s == None {
				return fmt.Errorf("%w: line %d: bad subset %q", ErrFormat, lineNo, f)
			}
			c.AddToSubset(uint32(s), u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func WritePartition(w io.Writer, p *Partition) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for u, s := range p.data {
		if s == None {
			continue
		}
		buf = strconv.AppendUint(buf[:0], uint64(u), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(s), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func WriteCover(w io.Writer, c *Cover) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for u, subsets := range c.data {
		if len(subsets) == 0 {
			continue
		}
		buf = strconv.AppendUint(buf[:0], uint64(u), 10)
		for _, s := range subsets {
			buf = append(buf, ' ')
			buf = strconv.AppendUint(buf, uint64(s), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func ReadPartitionFile(path string, firstNode uint32, n int) (*Partition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadPartition(f, firstNode, n)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p, nil
}

func ReadCoverFile(path string, firstNode uint32, n int) (*Cover, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ReadCover(f, firstNode, n)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c, nil
}

func WritePartitionFile(path string, p *Partition) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = WritePartition(f, p)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func WriteCoverFile(path string, c *Cover) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = WriteCover(f, c)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func parseNode(field string, firstNode uint32, n int) (uint32, error) {
	u, ok := utils.ToIntStr(field)
	if !ok {
		return 0, fmt.Errorf("%w: bad node %q", ErrFormat, field)
	}
	if u < firstNode {
		return 0, fmt.Errorf("%w: node %d below first id %d", ErrFormat, u, firstNode)
	}
	u -= firstNode
	if n > 0 && int(u) >= n {
		return 0, fmt.Errorf("%w: node %d beyond %d elements", ErrFormat, u, n)
	}
	return u, nil
}

func scanLines(r io.Reader, fn func(lineNo int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<26)
	fields := make([]string, 0, 8)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) > 0 && (line[0] == '#' || line[0] == '*') {
			continue
		}
		fields = utils.FastFields(fields, line)
		if len(fields) == 0 {
			continue
		}
		if err := fn(lineNo, fields); err != nil {
			return err
		}
	}
	return scanner.Err()
}
