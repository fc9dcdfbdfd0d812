// Package partition holds node to community assignments: partitions (one subset per node) and covers (any number).
package partition

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// None marks a node that is in no subset.
const None = math.MaxUint32

// Partition maps node id to subset id.
type Partition struct {
	data  []uint32
	upper uint32 // One past the largest subset id handed out.
}

func NewPartition(n int) *Partition {
	p := &Partition{data: make([]uint32, n)}
	for i := range p.data {
		p.data[i] = None
	}
	return p
}

// FromSlice takes ownership of assignment.
func FromSlice(assignment []uint32) *Partition {
	p := &Partition{data: assignment}
	for _, s := range assignment {
		if s != None && s+1 > p.upper {
			p.upper = s + 1
		}
	}
	return p
}

func (p *Partition) NumberOfElements() int { return len(p.data) }

func (p *Partition) UpperBound() uint32 { return p.upper }

func (p *Partition) SubsetOf(u uint32) uint32 { return p.data[u] }

func (p *Partition) Assignment() []uint32 { return p.data }

func (p *Partition) AddToSubset(s uint32, u uint32) {
	p.data[u] = s
	if s != None && s+1 > p.upper {
		p.upper = s + 1
	}
}

// Extend adds one element (unassigned) and returns its id.
func (p *Partition) Extend() uint32 {
	p.data = append(p.data, None)
	return uint32(len(p.data) - 1)
}

// ToSingleton moves u into a fresh subset.
func (p *Partition) ToSingleton(u uint32) {
	p.data[u] = p.upper
	p.upper++
}

// FillSingletons grows the partition to n elements, each new element its own subset;
// also gives every unassigned element a singleton.
func (p *Partition) FillSingletons(n int) {
	for len(p.data) < n {
		p.ToSingleton(p.Extend())
	}
	for u := range p.data {
		if p.data[u] == None {
			p.ToSingleton(uint32(u))
		}
	}
}

// NumberOfSubsets counts distinct non-empty subsets.
func (p *Partition) NumberOfSubsets() int {
	seen := make(map[uint32]struct{})
	for _, s := range p.data {
		if s != None {
			seen[s] = struct{}{}
		}
	}
	return len(seen)
}

// Subsets groups members by subset id; members are in ascending order.
func (p *Partition) Subsets() map[uint32][]uint32 {
	out := make(map[uint32][]uint32)
	for u, s := range p.data {
		if s != None {
			out[s] = append(out[s], uint32(u))
		}
	}
	return out
}

// Compact relabels subsets to 0..k-1 in order of first appearance.
func (p *Partition) Compact() {
	remap := make(map[uint32]uint32)
	for u, s := range p.data {
		if s == None {
			continue
		}
		ns, ok := remap[s]
		if !ok {
			ns = uint32(len(remap))
			remap[s] = ns
		}
		p.data[u] = ns
	}
	p.upper = uint32(len(remap))
}

// Cover maps node id to the subsets it belongs to.
type Cover struct {
	data [][]uint32
}

func NewCover(n int) *Cover {
	return &Cover{data: make([][]uint32, n)}
}

func CoverFromPartition(p *Partition) *Cover {
	c := NewCover(p.NumberOfElements())
	for u, s := range p.data {
		if s != None {
			c.data[u] = []uint32{s}
		}
	}
	return c
}

func (c *Cover) NumberOfElements() int { return len(c.data) }

// Grow ensures at least n elements; new elements are in no subset.
func (c *Cover) Grow(n int) {
	for len(c.data) < n {
		c.data = append(c.data, nil)
	}
}

func (c *Cover) SubsetsOf(u uint32) []uint32 { return c.data[u] }

func (c *Cover) AddToSubset(s uint32, u uint32) {
	c.Grow(int(u) + 1)
	if !slices.Contains(c.data[u], s) {
		c.data[u] = append(c.data[u], s)
	}
}

// SubsetIds in ascending order.
func (c *Cover) SubsetIds() []uint32 {
	ids := maps.Keys(c.Members())
	slices.Sort(ids)
	return ids
}

// Members of every subset.
func (c *Cover) Members() map[uint32][]uint32 {
	out := make(map[uint32][]uint32)
	for u, subsets := range c.data {
		for _, s := range subsets {
			out[s] = append(out[s], uint32(u))
		}
	}
	return out
}

// IsPartition reports whether every node is in at most one subset.
func (c *Cover) IsPartition() bool {
	for _, subsets := range c.data {
		if len(subsets) > 1 {
			return false
		}
	}
	return true
}

// ToPartition fails (ok == false) when some node is in more than one subset.
func (c *Cover) ToPartition() (p *Partition, ok bool) {
	if !c.IsPartition() {
		return nil, false
	}
	p = NewPartition(len(c.data))
	for u, subsets := range c.data {
		if len(subsets) == 1 {
			p.AddToSubset(subsets[0], uint32(u))
		}
	}
	return p, true
}
