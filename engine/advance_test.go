package engine

import (
	"math"
	"testing"

	"github.com/rfeldman/picmcc/xsec"
)

// buildSimpleEngine returns an engine with a single collision channel
// of the given type and per-particle rate, ballistic otherwise.
func buildSimpleEngine(t *testing.T, collType CollisionType, rateSigma float64, nMax int) *Engine {
	t.Helper()
	colls := []CollisionDescriptor{{Type: collType, EnLoss: 1e-20, PartMass: 9.1e-31, RelMass: 1}}
	xsecs := []xsec.CrossSection{constantCrossSection(rateSigma)}
	table, err := BuildRateTable(colls, xsecs, 9.1e-31, 50, 1000, 1e20)
	if err != nil {
		t.Fatalf("BuildRateTable: %v", err)
	}
	return New(Config{
		Mass:  9.1e-31,
		Colls: colls,
		Table: table,
		NMax:  nMax,
		DtMax: 1e-9,
		Accel: func(*Particle) [3]float64 { return [3]float64{} },
		Seed:  7,
	})
}

func TestAdvanceEmptyEngine(t *testing.T) {
	e := buildSimpleEngine(t, Attach, 1e-30, 10)
	e.Advance(1e-9)
	if e.NPart != 0 {
		t.Errorf("NPart = %d, want 0", e.NPart)
	}
	if e.Events().NStored() != 0 {
		t.Errorf("NStored = %d, want 0", e.Events().NStored())
	}
}

func TestAdvanceBallisticMotion(t *testing.T) {
	// Vanishingly small cross-section: collisions are astronomically
	// unlikely over this dt, so the particle flies ballistically.
	e := buildSimpleEngine(t, Attach, 1e-30, 10)
	e.Add([3]float64{0, 0, 0}, [3]float64{1, 0, 0}, [3]float64{}, 1, 0, 1, 0)

	e.Advance(1.0)

	if e.NPart != 1 {
		t.Fatalf("NPart = %d, want 1", e.NPart)
	}
	if math.Abs(e.Particles[0].X[0]-1.0) > 1e-6 {
		t.Errorf("X[0] = %v, want ~1.0", e.Particles[0].X[0])
	}
}

func TestAdvanceAttachmentEmptiesEngine(t *testing.T) {
	e := buildSimpleEngine(t, Attach, 1e-14, 10)
	e.Add([3]float64{0, 0, 0}, [3]float64{1e6, 0, 0}, [3]float64{}, 1, 0, 1, 0)

	e.Advance(1e-6)

	if e.NPart != 0 {
		t.Errorf("NPart = %d, want 0 after attachment", e.NPart)
	}
	if e.Events().NStored() == 0 {
		t.Error("expected at least one event recorded")
	}
}

func TestAdvanceOutOfDomainRemovesParticle(t *testing.T) {
	e := buildSimpleEngine(t, Attach, 1e-30, 10)
	e.OutsideCheck = func(p *Particle) int {
		if p.X[0] > 0.5 {
			return 1
		}
		return 0
	}
	e.Add([3]float64{0, 0, 0}, [3]float64{1, 0, 0}, [3]float64{}, 1, 0, 1, 0)

	e.Advance(1.0)

	if e.NPart != 0 {
		t.Errorf("NPart = %d, want 0 (left domain)", e.NPart)
	}
	events := e.Events().Events()
	if len(events) != 1 || events[0].Type != WentOut {
		t.Fatalf("events = %+v, want exactly one WentOut event", events)
	}
}

func TestAdvanceIonizationGrowsPopulation(t *testing.T) {
	// sigma chosen so the expected number of ionizations over the chosen
	// dt is small (~3): nu = sigma*v*n_bg = 1e-19*3e6*1e20 = 3e7/s, so
	// 1/nu ~= 3.33e-8s and dt = 1e-7s ~= 3/nu keeps growth well inside
	// nMax's headroom even on an unlucky draw.
	e := buildSimpleEngine(t, Ionize, 1e-19, 10000)
	e.Add([3]float64{0, 0, 0}, [3]float64{3e6, 0, 0}, [3]float64{}, 1, 0, 1, 0)

	keBefore := e.Particles[0].KineticEnergy(e.Mass)
	e.Advance(1e-7)

	if e.NPart <= 1 {
		t.Errorf("NPart = %d, want growth from ionization", e.NPart)
	}

	var keAfter float64
	for i := 0; i < e.NPart; i++ {
		keAfter += e.Particles[i].KineticEnergy(e.Mass)
	}
	if keAfter >= keBefore {
		t.Errorf("total KE should decrease net of ionization losses: before %v after %v", keBefore, keAfter)
	}
}
