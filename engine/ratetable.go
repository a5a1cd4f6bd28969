package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/rfeldman/picmcc/xsec"
)

// RateTable is a velocity-indexed, cumulative collision-rate lookup.
// Row i holds velocities uniformly spaced on [0, VMax]; column j holds
// the cumulative rate sum_{k<=j} nu_k(v_i).
type RateTable struct {
	VMax   float64
	N      int // number of velocity rows
	NCols  int // number of collisions

	cum []float64 // flattened N*NCols, row-major

	MaxRate    float64
	InvMaxRate float64
}

// BuildRateTable constructs the cumulative rate table for the given
// collision descriptors and cross-sections (parallel slices, same
// length and order), for a particle of the given mass, tabulated up to
// EMaxEV across tableSize rows. nBg folds the background gas density
// into each cross-section's rate at build time.
func BuildRateTable(colls []CollisionDescriptor, xsecs []xsec.CrossSection, mass float64, tableSize int, eMaxEV float64, nBg float64) (*RateTable, error) {
	if len(colls) == 0 {
		return nil, fmt.Errorf("engine: BuildRateTable requires at least one collision descriptor")
	}
	if len(xsecs) != len(colls) {
		return nil, fmt.Errorf("engine: BuildRateTable: %d collisions but %d cross-sections", len(colls), len(xsecs))
	}
	if tableSize < 2 {
		return nil, fmt.Errorf("engine: BuildRateTable: tableSize must be >= 2, got %d", tableSize)
	}
	if mass <= 0 {
		return nil, fmt.Errorf("engine: BuildRateTable: mass must be positive")
	}

	eMaxJ := eMaxEV * eVToJoule
	vMax := math.Sqrt(2 * eMaxJ / mass)

	velocities := make([]float64, tableSize)
	floats.Span(velocities, 0, vMax)

	rt := &RateTable{
		VMax:  vMax,
		N:     tableSize,
		NCols: len(colls),
		cum:   make([]float64, tableSize*len(colls)),
	}

	for i, v := range velocities {
		eEV := 0.5 * mass * v * v / eVToJoule
		running := 0.0
		for k, xs := range xsecs {
			nu := xs.Interp(eEV) * v * nBg
			running += nu
			rt.cum[i*rt.NCols+k] = running
		}
	}

	rt.MaxRate = 0
	for i := 0; i < tableSize; i++ {
		last := rt.cum[i*rt.NCols+rt.NCols-1]
		if last > rt.MaxRate {
			rt.MaxRate = last
		}
	}
	if rt.MaxRate <= 0 {
		return nil, fmt.Errorf("engine: BuildRateTable: max_rate is non-positive; check cross-sections")
	}
	rt.InvMaxRate = 1 / rt.MaxRate

	return rt, nil
}

// eVToJoule converts electron-volts to joules.
const eVToJoule = 1.602176634e-19

// GetMCol returns all NCols cumulative rates at velocity v, linearly
// interpolated between the two nearest table rows. dst is reused if it
// has sufficient capacity.
func (rt *RateTable) GetMCol(v float64, dst []float64) []float64 {
	if cap(dst) < rt.NCols {
		dst = make([]float64, rt.NCols)
	}
	dst = dst[:rt.NCols]

	if v <= 0 {
		copy(dst, rt.cum[:rt.NCols])
		return dst
	}
	if v >= rt.VMax {
		copy(dst, rt.cum[(rt.N-1)*rt.NCols:rt.N*rt.NCols])
		return dst
	}

	step := rt.VMax / float64(rt.N-1)
	idx := v / step
	lo := int(idx)
	hi := lo + 1
	if hi >= rt.N {
		hi = rt.N - 1
		lo = hi - 1
	}
	frac := idx - float64(lo)

	rowLo := rt.cum[lo*rt.NCols : (lo+1)*rt.NCols]
	rowHi := rt.cum[hi*rt.NCols : (hi+1)*rt.NCols]
	for k := 0; k < rt.NCols; k++ {
		dst[k] = rowLo[k]*(1-frac) + rowHi[k]*frac
	}
	return dst
}
