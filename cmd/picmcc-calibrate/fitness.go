package main

import (
	"math"
	"math/rand"

	"github.com/rfeldman/picmcc/config"
	"github.com/rfeldman/picmcc/engine"
	"github.com/rfeldman/picmcc/xsec"
)

// FitnessEvaluator runs a short calibration simulation for a candidate
// parameter set and scores how well it holds the particle count near
// a target level while keeping the mean energy consistent across seeds.
type FitnessEvaluator struct {
	params     *ParamVector
	baseCfg    *config.Config
	steps      int
	seeds      []int64
	lastSpread float64
}

func NewFitnessEvaluator(params *ParamVector, steps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{params: params, baseCfg: baseCfg, steps: steps, seeds: seeds}
}

// LastSpread reports the coefficient of variation of the particle
// count across the last Evaluate call's seeds, for progress reporting.
func (f *FitnessEvaluator) LastSpread() float64 { return f.lastSpread }

// Evaluate runs one simulation per configured seed with the given raw
// parameter values applied, and returns a scalar to minimize: the
// seed-averaged squared relative deviation of the final particle
// count from its target, plus a penalty for energy-distribution drift.
func (f *FitnessEvaluator) Evaluate(raw []float64) float64 {
	clamped := f.params.Clamp(raw)
	sp := f.baseCfg.Species[0]
	target := float64(sp.NMax) / 2

	msCfg := engine.DefaultMergeSplitConfig()
	msCfg.SmallRatio = clamped[1]
	msCfg.LargeRatio = clamped[2]
	dt := clamped[3]
	targetWeight := clamped[0]

	counts := make([]float64, len(f.seeds))
	energies := make([]float64, len(f.seeds))

	for i, seed := range f.seeds {
		e := buildCalibrationEngine(f.baseCfg, sp, seed)
		seedPopulation(e, sp, targetWeight, seed)

		for step := 0; step < f.steps; step++ {
			e.Advance(dt)
			if step%10 == 9 {
				e.MergeAndSplit(engine.ConstantTarget(targetWeight), msCfg, nil, nil)
				e.CleanUp()
			}
		}

		counts[i] = float64(e.NSimPart())
		d := e.ComputeDiagnostics(8)
		energies[i] = d.MeanEnergyEV
	}

	meanCount := mean(counts)
	f.lastSpread = stddev(counts) / math.Max(meanCount, 1)

	countErr := (meanCount - target) / target
	energyErr := stddev(energies) / math.Max(mean(energies), 1e-9)

	return countErr*countErr + 0.3*energyErr*energyErr
}

func buildCalibrationEngine(cfg *config.Config, sp config.SpeciesConfig, seed int64) *engine.Engine {
	provider := xsec.CSVProvider{}
	colls := make([]engine.CollisionDescriptor, len(sp.Collisions))
	xsecs := make([]xsec.CrossSection, len(sp.Collisions))

	for j, c := range sp.Collisions {
		cs, err := provider.Load(c.CSVPath)
		if err != nil {
			panic(err)
		}
		xsecs[j] = cs
		colls[j] = engine.CollisionDescriptor{
			Type:     collisionTypeFromString(c.Type),
			EnLoss:   c.EnLossEV * 1.602176634e-19,
			PartMass: sp.Mass,
			RelMass:  c.RelMass,
		}
	}

	table, err := engine.BuildRateTable(colls, xsecs, sp.Mass, cfg.RateTable.TableSize, cfg.RateTable.EMaxEV, sp.Background.Density)
	if err != nil {
		panic(err)
	}

	return engine.New(engine.Config{
		Mass:  sp.Mass,
		Colls: colls,
		Table: table,
		NMax:  sp.NMax,
		DtMax: cfg.Advance.DTMax,
		Mover: engine.VerletMover{},
		Accel: func(*engine.Particle) [3]float64 { return [3]float64{} },
		Seed:  seed,
	})
}

// seedPopulation fills e with NMax/2 particles of weight targetWeight,
// velocities drawn from an isotropic Gaussian scaled to a few eV, so
// every calibration run starts from a comparable initial distribution.
func seedPopulation(e *engine.Engine, sp config.SpeciesConfig, targetWeight float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	n := sp.NMax / 2
	thermalSpeed := math.Sqrt(2 * 5 * 1.602176634e-19 / sp.Mass)
	for i := 0; i < n; i++ {
		v := [3]float64{
			rng.NormFloat64() * thermalSpeed,
			rng.NormFloat64() * thermalSpeed,
			rng.NormFloat64() * thermalSpeed,
		}
		e.Add([3]float64{}, v, [3]float64{}, targetWeight, 0, int64(i), 0)
	}
}

func collisionTypeFromString(s string) engine.CollisionType {
	switch s {
	case "elastic":
		return engine.Elastic
	case "excite":
		return engine.Excite
	case "ionize":
		return engine.Ionize
	case "attach":
		return engine.Attach
	default:
		panic("picmcc-calibrate: unknown collision type " + s)
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}
