// Command picmcc-calibrate searches for merge/split and time-stepping
// parameters that hold a species' simulated particle count near a
// target level without distorting its energy distribution.
package main

import "github.com/rfeldman/picmcc/config"

// ParamSpec defines one optimizable scalar and its search bounds.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the fixed set of tunables searched by calibrate.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the merge/split and time-step parameters
// calibrate searches over.
func NewParamVector(cfg *config.Config) *ParamVector {
	tw := cfg.MergeSplit.TargetWeight
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "target_weight", Min: tw * 0.1, Max: tw * 10, Default: tw},
			{Name: "small_ratio", Min: 0.3, Max: 0.9, Default: cfg.MergeSplit.SmallRatio},
			{Name: "large_ratio", Min: 1.1, Max: 3.0, Default: cfg.MergeSplit.LargeRatio},
			{Name: "dt", Min: cfg.Advance.DT * 0.1, Max: cfg.Advance.DT * 10, Default: cfg.Advance.DT},
		},
	}
}

func (pv *ParamVector) Dim() int { return len(pv.Specs) }

func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		v[i] = s.Default
	}
	return v
}

// Normalize maps raw parameter values into [0,1] for the optimizer.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = (raw[i] - s.Min) / (s.Max - s.Min)
	}
	return out
}

// Denormalize maps [0,1] optimizer values back to raw parameter values.
func (pv *ParamVector) Denormalize(norm []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = s.Min + norm[i]*(s.Max-s.Min)
	}
	return out
}

// Clamp restricts raw values to their configured bounds.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		v := raw[i]
		if v < s.Min {
			v = s.Min
		}
		if v > s.Max {
			v = s.Max
		}
		out[i] = v
	}
	return out
}

// ApplyToConfig writes raw parameter values into the relevant fields of
// cfg, for persisting the winning search result.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	cfg.MergeSplit.TargetWeight = raw[0]
	cfg.MergeSplit.SmallRatio = raw[1]
	cfg.MergeSplit.LargeRatio = raw[2]
	cfg.Advance.DT = raw[3]
}
