package telemetry

import "github.com/rfeldman/picmcc/engine"

// Collector accumulates per-window collision-event counts and merge/
// split counts, and produces a WindowStats snapshot on demand.
type Collector struct {
	windowStartStep int
	dt              float64

	elastic, excite, ionize, attach, wentOut int
	merges, splits                           int
}

// NewCollector creates a stats collector. dt is the seconds-per-step
// used for step-to-simulation-time conversion.
func NewCollector(dt float64) *Collector {
	return &Collector{dt: dt}
}

// RecordMerges adds n merges observed since the last Flush.
func (c *Collector) RecordMerges(n int) { c.merges += n }

// RecordSplits adds n splits observed since the last Flush.
func (c *Collector) RecordSplits(n int) { c.splits += n }

// AbsorbEvents tallies an engine's event log into the collector's
// running counters and clears the log, so repeated windows don't
// double-count events already reported.
func (c *Collector) AbsorbEvents(log *engine.EventLog) {
	for _, ev := range log.Events() {
		switch {
		case ev.Type == engine.WentOut:
			c.wentOut++
		case engine.CollisionType(ev.Type) == engine.Elastic:
			c.elastic++
		case engine.CollisionType(ev.Type) == engine.Excite:
			c.excite++
		case engine.CollisionType(ev.Type) == engine.Ionize:
			c.ionize++
		case engine.CollisionType(ev.Type) == engine.Attach:
			c.attach++
		}
	}
	log.Reset()
}

// Flush produces a WindowStats from the engine's current diagnostics
// plus the counters accumulated since the previous Flush, then resets
// those counters for the next window.
func (c *Collector) Flush(currentStep int, d engine.Diagnostics) WindowStats {
	stats := WindowStats{
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   currentStep,
		SimTimeSec:      float64(currentStep) * c.dt,

		NSimPart:  d.NSimPart,
		NRealPart: d.NRealPart,

		MeanEnergyEV: d.MeanEnergyEV,
		StdEnergyEV:  d.StdEnergyEV,

		Elastic: c.elastic,
		Excite:  c.excite,
		Ionize:  c.ionize,
		Attach:  c.attach,
		WentOut: c.wentOut,

		Merges: c.merges,
		Splits: c.splits,
	}

	c.windowStartStep = currentStep
	c.elastic, c.excite, c.ionize, c.attach, c.wentOut = 0, 0, 0, 0, 0
	c.merges, c.splits = 0, 0

	return stats
}
