package partition

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillSingletons(t *testing.T) {
	p, err := ReadClu(strings.NewReader("# v1.0\n# node module flow\n0 1 0.25\n1 1 0.25\n3 2 0.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, p.NumberOfElements())
	assert.Equal(t, uint32(None), p.SubsetOf(2))

	p.FillSingletons(6)
	assert.Equal(t, 6, p.NumberOfElements())
	assert.Equal(t, 5, p.NumberOfSubsets())
	assert.NotEqual(t, uint32(None), p.SubsetOf(2))
	assert.NotEqual(t, p.SubsetOf(4), p.SubsetOf(5))
	assert.Equal(t, p.SubsetOf(0), p.SubsetOf(1))
}

func TestCompactAndSubsets(t *testing.T) {
	p := FromSlice([]uint32{7, 7, 3, None, 3, 9})
	assert.Equal(t, uint32(10), p.UpperBound())
	p.Compact()
	assert.Equal(t, []uint32{0, 0, 1, None, 1, 2}, p.Assignment())
	assert.Equal(t, uint32(3), p.UpperBound())
	subsets := p.Subsets()
	assert.Equal(t, []uint32{2, 4}, subsets[1])
	assert.Len(t, subsets, 3)
}

func TestToSingletonUsesFreshIds(t *testing.T) {
	p := NewPartition(3)
	p.AddToSubset(4, 0)
	p.ToSingleton(1)
	assert.Equal(t, uint32(5), p.SubsetOf(1))
	u := p.Extend()
	assert.Equal(t, uint32(3), u)
	assert.Equal(t, uint32(None), p.SubsetOf(u))
}

func TestReadPartitionOneBasedTabs(t *testing.T) {
	// community.dat of the reference benchmark.
	p, err := ReadPartition(strings.NewReader("1\t1\n2\t1\n3\t2\n"), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 1, 2}, p.Assignment())

	_, err = ReadPartition(strings.NewReader("0\t1\n"), 1, 0)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadPartition(strings.NewReader("1\n"), 0, 0)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadPartition(strings.NewReader("5 1\n"), 0, 3)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadPartition(strings.NewReader("4294967296 1\n"), 0, 0)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestPartitionRoundTrip(t *testing.T) {
	p := FromSlice([]uint32{0, 2, 2, None, 1})
	var buf bytes.Buffer
	require.NoError(t, WritePartition(&buf, p))
	assert.Equal(t, "0 0\n1 2\n2 2\n4 1\n", buf.String())

	back, err := ReadPartition(&buf, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, p.Assignment(), back.Assignment())
}

func TestCover(t *testing.T) {
	c, err := ReadCover(strings.NewReader("0 0 1\n1 1\n2 0\n2 1\n4 2\n"), 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.NumberOfElements())
	assert.Equal(t, []uint32{0, 1}, c.SubsetsOf(2))
	assert.Empty(t, c.SubsetsOf(3))
	assert.Equal(t, []uint32{0, 1, 2}, c.SubsetIds())
	assert.Equal(t, []uint32{0, 1, 2}, c.Members()[1])
	assert.False(t, c.IsPartition())
	_, ok := c.ToPartition()
	assert.False(t, ok)

	var buf bytes.Buffer
	require.NoError(t, WriteCover(&buf, c))
	back, err := ReadCover(&buf, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, c.Members(), back.Members())
}

func TestCoverPartitionConversion(t *testing.T) {
	p := FromSlice([]uint32{1, 0, None})
	c := CoverFromPartition(p)
	assert.True(t, c.IsPartition())
	back, ok := c.ToPartition()
	require.True(t, ok)
	assert.Equal(t, p.Assignment(), back.Assignment())
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	pp := filepath.Join(dir, "x.part")
	require.NoError(t, WritePartitionFile(pp, FromSlice([]uint32{0, 1})))
	p, err := ReadPartitionFile(pp, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, p.NumberOfSubsets())

	cp := filepath.Join(dir, "x.cover")
	c := NewCover(2)
	c.AddToSubset(3, 1)
	require.NoError(t, WriteCoverFile(cp, c))
	back, err := ReadCoverFile(cp, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3}, back.SubsetsOf(1))

	_, err = ReadCoverFile(filepath.Join(dir, "nope"), 0, 0)
	assert.Error(t, err)
}
