package telemetry

import "log/slog"

// WindowStats holds aggregated diagnostics for one reporting window:
// population and weighted-energy statistics plus per-collision-type
// and merge/split event counts.
type WindowStats struct {
	WindowStartStep int     `csv:"-"`
	WindowEndStep   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	NSimPart  int     `csv:"n_sim_part"`
	NRealPart float64 `csv:"n_real_part"`

	MeanEnergyEV float64 `csv:"mean_energy_ev"`
	StdEnergyEV  float64 `csv:"std_energy_ev"`

	Elastic int `csv:"elastic"`
	Excite  int `csv:"excite"`
	Ionize  int `csv:"ionize"`
	Attach  int `csv:"attach"`
	WentOut int `csv:"went_out"`

	Merges int `csv:"merges"`
	Splits int `csv:"splits"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartStep),
		slog.Int("window_end", s.WindowEndStep),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("n_sim_part", s.NSimPart),
		slog.Float64("n_real_part", s.NRealPart),
		slog.Float64("mean_energy_ev", s.MeanEnergyEV),
		slog.Float64("std_energy_ev", s.StdEnergyEV),
		slog.Int("elastic", s.Elastic),
		slog.Int("excite", s.Excite),
		slog.Int("ionize", s.Ionize),
		slog.Int("attach", s.Attach),
		slog.Int("went_out", s.WentOut),
		slog.Int("merges", s.Merges),
		slog.Int("splits", s.Splits),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
