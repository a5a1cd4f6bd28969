package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Diagnostics summarizes a population snapshot: weighted particle
// counts, energy statistics, and an energy histogram.
type Diagnostics struct {
	NSimPart  int
	NRealPart float64
	MeanEnergyEV float64
	StdEnergyEV  float64
	Histogram    []float64 // counts per bin, weighted by particle weight
	BinEdges     []float64 // len(Histogram)+1
}

// ComputeDiagnostics summarizes the engine's live population. Kinetic
// energies use the engine's rest mass e.Mass; nBins controls the energy
// histogram resolution.
func (e *Engine) ComputeDiagnostics(nBins int) Diagnostics {
	d := Diagnostics{NSimPart: e.NPart}
	if e.NPart == 0 {
		return d
	}

	energies := make([]float64, e.NPart)
	weights := make([]float64, e.NPart)
	for i := 0; i < e.NPart; i++ {
		p := &e.Particles[i]
		energies[i] = p.KineticEnergy(e.Mass) / eVToJoule
		weights[i] = p.W
		d.NRealPart += p.W
	}

	d.MeanEnergyEV = stat.Mean(energies, weights)
	variance := stat.Variance(energies, weights)
	if variance < 0 {
		variance = 0
	}
	d.StdEnergyEV = math.Sqrt(variance)

	d.Histogram, d.BinEdges = histogram(energies, weights, nBins)
	return d
}

// histogram buckets values into nBins equal-width bins spanning
// [min(values), max(values)], weighting each sample's contribution by
// the matching entry in weights. Grounded on gonum/stat's Histogram
// plus gonum/floats.Span for the bin-edge layout already used by
// RateTable's velocity grid (ratetable.go).
func histogram(values, weights []float64, nBins int) (counts, edges []float64) {
	if nBins <= 0 {
		nBins = 1
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if hi <= lo {
		hi = lo + 1
	}
	edges = make([]float64, nBins+1)
	floats.Span(edges, lo, hi)

	counts = make([]float64, nBins)
	dividers := make([]float64, nBins+1)
	copy(dividers, edges)
	// stat.Histogram needs ascending samples and a top divider strictly
	// above the largest sample, so the maximum falls in the last bin.
	dividers[nBins] = math.Nextafter(hi, math.Inf(1))
	sortedV := append([]float64(nil), values...)
	order := make([]int, len(values))
	floats.Argsort(sortedV, order)
	sortedW := make([]float64, len(order))
	for k, i := range order {
		sortedW[k] = weights[i]
	}
	stat.Histogram(counts, dividers, sortedV, sortedW)
	return counts, edges
}
