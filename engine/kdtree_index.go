package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// mergePoint is one merge-candidate particle located in the masked
// (position, velocity) space used for nearest-neighbor search during
// merge and split. index refers back into the candidate slice the
// cloud was built from.
type mergePoint struct {
	coords []float64
	index  int
}

// Compare implements kdtree.Comparable.
func (p *mergePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	o := c.(*mergePoint)
	return p.coords[d] - o.coords[d]
}

// Dims implements kdtree.Comparable.
func (p *mergePoint) Dims() int { return len(p.coords) }

// Distance implements kdtree.Comparable, returning squared Euclidean
// distance (the tree only needs it for ordering; callers that compare
// against max_merge_distance take the square root themselves).
func (p *mergePoint) Distance(c kdtree.Comparable) float64 {
	o := c.(*mergePoint)
	var sum float64
	for i, v := range p.coords {
		delta := v - o.coords[i]
		sum += delta * delta
	}
	return sum
}

// mergeCloud is a kdtree.Interface over mergePoint values: the
// candidate set mergeSmallCluster searches for nearest-neighbor
// pairs in masked (position, velocity) space.
type mergeCloud []*mergePoint

func (m mergeCloud) Index(i int) kdtree.Comparable          { return m[i] }
func (m mergeCloud) Len() int                                { return len(m) }
func (m mergeCloud) Slice(start, end int) kdtree.Interface   { return m[start:end] }

// Pivot partitions m around the median along dimension d, as required
// by kdtree.Interface, and returns the median's position.
func (m mergeCloud) Pivot(d kdtree.Dim) int {
	sort.Sort(byDim{m, d})
	return len(m) / 2
}

type byDim struct {
	m mergeCloud
	d kdtree.Dim
}

func (b byDim) Len() int      { return len(b.m) }
func (b byDim) Swap(i, j int) { b.m[i], b.m[j] = b.m[j], b.m[i] }
func (b byDim) Less(i, j int) bool {
	return b.m[i].coords[b.d] < b.m[j].coords[b.d]
}

// nearestOther returns the candidate nearest to q (excluding q itself)
// and the Euclidean (not squared) distance to it. ok is false if the
// cloud has no other member.
func nearestOther(tree *kdtree.Tree, q *mergePoint) (idx int, dist float64, ok bool) {
	keeper := kdtree.NewNKeeper(2)
	tree.NearestSet(keeper, q)

	best := -1
	bestSq := 0.0
	for _, cd := range keeper.Heap {
		cand := cd.Comparable.(*mergePoint)
		if cand.index == q.index {
			continue
		}
		if best == -1 || cd.Dist < bestSq {
			best = cand.index
			bestSq = cd.Dist
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return best, math.Sqrt(bestSq), true
}
