package engine

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// MergeSplitConfig controls weight-based rebalancing. PosMask selects
// which position axes feed the nearest-neighbor search; a false entry
// drops that axis from the distance metric entirely. VFac scales
// velocity into the same distance metric as position (position is in
// meters, velocity in meters/second, so mixing them unscaled would let
// velocity dominate or vanish depending on the simulation's speed
// scale); when UseVNorm is set, velocity contributes a single
// |v|·VFac component instead of three scaled axes.
type MergeSplitConfig struct {
	SmallRatio       float64 // w/target at or below this merges
	LargeRatio       float64 // w/target at or above this splits
	MaxMergeDistance float64 // candidates farther apart than this in masked space never merge
	PosMask          [3]bool
	VFac             float64
	UseVNorm         bool
}

// DefaultMergeSplitConfig returns the 1/1.5 and 1.5 merge/split ratio
// thresholds used when a caller doesn't need tighter control.
func DefaultMergeSplitConfig() MergeSplitConfig {
	return MergeSplitConfig{
		SmallRatio:       1.0 / 1.5,
		LargeRatio:       1.5,
		MaxMergeDistance: 1,
		PosMask:          [3]bool{true, true, true},
		VFac:             1,
	}
}

// TargetWeightFunc returns the weight a particle should carry; merge
// and split decisions compare each particle's actual weight against
// its own target rather than a single engine-wide scalar.
type TargetWeightFunc func(p *Particle) float64

// ConstantTarget returns a TargetWeightFunc that ignores its argument
// and always returns w, for callers with a single uniform target.
func ConstantTarget(w float64) TargetWeightFunc {
	return func(*Particle) float64 { return w }
}

// MergeFunc combines two particles into one, returning the merged
// particle's replacement for slot a. b is freed.
type MergeFunc func(a, b *Particle) Particle

// SplitFunc divides one overweight particle into two half-weight
// siblings sharing its phase-space point.
type SplitFunc func(p *Particle) (out [2]Particle)

// MergePartRxV is the default MergeFunc: weighted mean of position and
// velocity, summed weight.
func MergePartRxV(a, b *Particle) Particle {
	wSum := a.W + b.W
	merged := *a
	merged.W = wSum
	if wSum <= 0 {
		return merged
	}
	for d := 0; d < 3; d++ {
		merged.X[d] = (a.X[d]*a.W + b.X[d]*b.W) / wSum
		merged.V[d] = (a.V[d]*a.W + b.V[d]*b.W) / wSum
	}
	return merged
}

// SplitHalveWeight is the default SplitFunc: two coincident half-weight
// copies of p.
func SplitHalveWeight(p *Particle) (out [2]Particle) {
	half := p.W / 2
	out[0] = *p
	out[0].W = half
	out[1] = *p
	out[1].W = half
	return out
}

// splitCandidate pairs a particle index with the ratio driving its
// split priority so the highest-ratio overweight particles are split
// first when free slots are scarce.
type splitCandidate struct {
	index int
	ratio float64
}

// MergeAndSplit rebalances the whole live population: it merges
// clusters of underweight particles down toward their target weight
// and splits overweight particles up toward it, recycling freed slots
// for new splits before falling back to appending. It is the
// engine-wide entry point; MergeAndSplitRange lets callers bound the
// scan to a sub-range (e.g. one spatial bin) for load-sharing use.
func (e *Engine) MergeAndSplit(target TargetWeightFunc, cfg MergeSplitConfig, merge MergeFunc, split SplitFunc) {
	e.MergeAndSplitRange(0, e.NPart, target, cfg, merge, split)
}

// MergeAndSplitRange runs merge_and_split over live particles with
// index in [lo, hi): build a k-d tree over small particles in masked
// phase space, merge each with its nearest neighbor if within
// MaxMergeDistance, then split overweight particles in descending
// ratio order, reusing indices freed by merges (a free_ixs stack)
// before growing NPart.
func (e *Engine) MergeAndSplitRange(lo, hi int, target TargetWeightFunc, cfg MergeSplitConfig, merge MergeFunc, split SplitFunc) {
	if target == nil || hi <= lo {
		return
	}
	if merge == nil {
		merge = MergePartRxV
	}
	if split == nil {
		split = SplitHalveWeight
	}

	freed := e.mergeSmallCluster(lo, hi, target, cfg, merge)
	e.splitLargeCluster(lo, hi, target, cfg, split, freed)
}

// mergeSmallCluster visits live underweight particles in ascending
// weight/target ratio, finds each one's nearest other underweight
// particle in masked phase space, and merges the pair if within
// cfg.MaxMergeDistance. A particle whose nearest neighbor has already
// been merged is left as it is; no further neighbor is tried. It returns
// the indices freed by successful merges, for splitLargeCluster to
// recycle.
func (e *Engine) mergeSmallCluster(lo, hi int, target TargetWeightFunc, cfg MergeSplitConfig, merge MergeFunc) []int {
	points := make(mergeCloud, 0, hi-lo)
	for i := lo; i < hi; i++ {
		p := &e.Particles[i]
		if !p.Alive() {
			continue
		}
		t := target(p)
		if t <= 0 || p.W/t > cfg.SmallRatio {
			continue
		}
		points = append(points, &mergePoint{coords: maskedCoords(p, cfg), index: i})
	}
	if len(points) < 2 {
		return nil
	}

	// kdtree.New reorders points in place, so keep a separate visiting
	// order sorted by ascending weight/target ratio.
	order := make([]*mergePoint, len(points))
	copy(order, points)
	ratio := func(q *mergePoint) float64 { p := &e.Particles[q.index]; return p.W / target(p) }
	sort.Slice(order, func(a, b int) bool { return ratio(order[a]) < ratio(order[b]) })

	tree := kdtree.New(points, false)

	merged := make(map[int]bool, len(points))
	var freed []int

	for _, q := range order {
		if merged[q.index] {
			continue
		}
		j, dist, ok := nearestOther(tree, q)
		if !ok || merged[j] || dist > cfg.MaxMergeDistance {
			continue
		}
		a, b := &e.Particles[q.index], &e.Particles[j]
		*a = merge(a, b)
		b.W = Dead
		merged[q.index] = true
		merged[j] = true
		freed = append(freed, j)
	}

	return freed
}

// splitLargeCluster processes overweight particles in descending-ratio
// order (the particles furthest from their target split first),
// writing the second sibling into a freed slot if one remains, else
// appending via the engine's fixed-capacity array.
func (e *Engine) splitLargeCluster(lo, hi int, target TargetWeightFunc, cfg MergeSplitConfig, split SplitFunc, freed []int) {
	var candidates []splitCandidate
	for i := lo; i < hi; i++ {
		p := &e.Particles[i]
		if !p.Alive() {
			continue
		}
		t := target(p)
		if t <= 0 {
			continue
		}
		ratio := p.W / t
		if ratio < cfg.LargeRatio {
			continue
		}
		candidates = append(candidates, splitCandidate{index: i, ratio: ratio})
	}
	if len(candidates) == 0 {
		return
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ratio > candidates[j].ratio })

	freeIxs := freed
	for _, c := range candidates {
		p := &e.Particles[c.index]
		if !p.Alive() {
			continue
		}
		out := split(p)
		*p = out[0]

		if n := len(freeIxs); n > 0 {
			slot := freeIxs[n-1]
			freeIxs = freeIxs[:n-1]
			e.Particles[slot] = out[1]
			continue
		}

		e.CheckSpace(e.NPart + 1)
		e.Particles[e.NPart] = out[1]
		e.NPart++
	}

	// Any merge-freed slots splits didn't reuse are still marked dead
	// but never passed through RemovePart; queue them so the next
	// CleanUp compacts them out instead of leaving a live-range hole.
	for _, slot := range freeIxs {
		e.cleanList = append(e.cleanList, slot)
	}
}

// maskedCoords projects a particle's position and velocity down to the
// nearest-neighbor metric's coordinate space: the position axes cfg
// enables, followed by velocity scaled by cfg.VFac (either per-axis, or
// collapsed to a single |v| component when cfg.UseVNorm is set).
func maskedCoords(p *Particle, cfg MergeSplitConfig) []float64 {
	coords := make([]float64, 0, 4)
	for d := 0; d < 3; d++ {
		if cfg.PosMask[d] {
			coords = append(coords, p.X[d])
		}
	}
	if cfg.UseVNorm {
		coords = append(coords, cfg.VFac*p.Speed())
	} else {
		for d := 0; d < 3; d++ {
			coords = append(coords, cfg.VFac*p.V[d])
		}
	}
	return coords
}
