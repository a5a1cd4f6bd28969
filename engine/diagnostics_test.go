package engine

import (
	"math"
	"testing"
)

func TestComputeDiagnosticsEmptyEngine(t *testing.T) {
	e := newTestEngine(t, 10)
	d := e.ComputeDiagnostics(8)
	if d.NSimPart != 0 || d.NRealPart != 0 {
		t.Errorf("empty engine diagnostics = %+v, want zero", d)
	}
}

func TestComputeDiagnosticsWeightedMean(t *testing.T) {
	e := newTestEngine(t, 10)
	// v chosen so KE is a round number of eV for an easy check.
	e.Add([3]float64{}, [3]float64{1e6, 0, 0}, [3]float64{}, 3, 0, 1, 0)
	e.Add([3]float64{}, [3]float64{2e6, 0, 0}, [3]float64{}, 1, 0, 2, 0)

	d := e.ComputeDiagnostics(4)
	if d.NSimPart != 2 {
		t.Errorf("NSimPart = %d, want 2", d.NSimPart)
	}
	if d.NRealPart != 4 {
		t.Errorf("NRealPart = %v, want 4", d.NRealPart)
	}

	ke1 := (&Particle{V: [3]float64{1e6, 0, 0}}).KineticEnergy(e.Mass) / eVToJoule
	ke2 := (&Particle{V: [3]float64{2e6, 0, 0}}).KineticEnergy(e.Mass) / eVToJoule
	wantMean := (ke1*3 + ke2*1) / 4
	if math.Abs(d.MeanEnergyEV-wantMean) > wantMean*1e-6 {
		t.Errorf("MeanEnergyEV = %v, want %v", d.MeanEnergyEV, wantMean)
	}
	if len(d.Histogram) != 4 || len(d.BinEdges) != 5 {
		t.Errorf("histogram shape = %d counts / %d edges, want 4/5", len(d.Histogram), len(d.BinEdges))
	}
}
