package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfeldman/picmcc/engine"
)

func TestCollectorFlushResetsCounters(t *testing.T) {
	c := NewCollector(1e-10)

	log := &engine.EventLog{}
	log.Append(engine.Event{Type: int32(engine.Excite), CollIndex: 0})
	log.Append(engine.Event{Type: int32(engine.Ionize), CollIndex: 1})
	log.Append(engine.Event{Type: engine.WentOut, CollIndex: -1})

	c.AbsorbEvents(log)
	c.RecordMerges(3)
	c.RecordSplits(1)

	d := engine.Diagnostics{NSimPart: 10, NRealPart: 1e8, MeanEnergyEV: 2.5}
	stats := c.Flush(100, d)

	assert.Equal(t, 1, stats.Excite)
	assert.Equal(t, 1, stats.Ionize)
	assert.Equal(t, 1, stats.WentOut)
	assert.Equal(t, 3, stats.Merges)
	assert.Equal(t, 1, stats.Splits)
	assert.Equal(t, 10, stats.NSimPart)
	assert.Equal(t, 2.5, stats.MeanEnergyEV)
	require.Zero(t, log.NStored(), "AbsorbEvents should reset the log")

	second := c.Flush(200, engine.Diagnostics{})
	assert.Zero(t, second.Excite)
	assert.Zero(t, second.Merges)
	assert.Equal(t, 100, second.WindowStartStep)
	assert.Equal(t, 200, second.WindowEndStep)
}
