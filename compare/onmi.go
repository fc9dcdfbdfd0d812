package compare

import (
	"fmt"
	"math"

	"github.com/ScottSallinen/lfrbench/partition"
)

// OverlappingNMI is the max-normalised NMI for covers (McDaid, Greene, Hurley 2011),
// built on the conditional entropies of Lancichinetti, Fortunato and Kertesz.
func OverlappingNMI(x, y *partition.Cover) (float64, error) {
	if x.NumberOfElements() != y.NumberOfElements() {
		return 0, fmt.Errorf("%w: %d vs %d", ErrSize, x.NumberOfElements(), y.NumberOfElements())
	}
	n := float64(x.NumberOfElements())
	if n == 0 {
		return 1, nil
	}

	sizeX := subsetSizes(x)
	sizeY := subsetSizes(y)
	inter := make(map[pairKey]int)
	for u := 0; u < x.NumberOfElements(); u++ {
		for _, sx := range x.SubsetsOf(uint32(u)) {
			for _, sy := range y.SubsetsOf(uint32(u)) {
				inter[pairKey{sx, sy}]++
			}
		}
	}

	hX, hXgY := coverConditional(sizeX, sizeY, inter, n, false)
	hY, hYgX := coverConditional(sizeY, sizeX, inter, n, true)

	maxH := math.Max(hX, hY)
	if maxH == 0 {
		return 1, nil
	}
	mi := 0.5 * (hX - hXgY + hY - hYgX)
	return clamp01(mi / maxH), nil
}

func subsetSizes(c *partition.Cover) map[uint32]int {
	sizes := make(map[uint32]int)
	for u := 0; u < c.NumberOfElements(); u++ {
		for _, s := range c.SubsetsOf(uint32(u)) {
			sizes[s]++
		}
	}
	return sizes
}

func h(w, n float64) float64 {
	if w <= 0 {
		return 0
	}
	p := w / n
	return -p * math.Log2(p)
}

// Returns H(A) = sum of H(A_k) and H(A|B) = sum of min_l H(A_k|B_l). swapped reads inter with keys (b, a).
func coverConditional(sizeA, sizeB map[uint32]int, inter map[pairKey]int, n float64, swapped bool) (hA, hAgB float64) {
	for ka, xa := range sizeA {
		x := float64(xa)
		hk := h(x, n) + h(n-x, n)
		hA += hk
		best := hk
		for kb, yb := range sizeB {
			key := pairKey{ka, kb}
			if swapped {
				key = pairKey{kb, ka}
			}
			d := float64(inter[key])
			y := float64(yb)
			a := n - x - y + d
			b := x - d
			c := y - d
			if h(a, n)+h(d, n) < h(b, n)+h(c, n) {
				continue
			}
			cond := h(a, n) + h(b, n) + h(c, n) + h(d, n) - h(c+d, n) - h(a+b, n)
			if cond < best {
				best = cond
			}
		}
		hAgB += best
	}
	return hA, hAgB
}
