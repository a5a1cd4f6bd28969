package engine

import "math"

// SampleCollTime draws the next candidate collision time from an
// exponential distribution with rate MaxRate, given a uniform draw
// u in [0, 1).
func SampleCollTime(u float64, invMaxRate float64) float64 {
	return -math.Log(1-u) * invMaxRate
}

// GetCollIndex queries the cumulative rates at speed v and returns the
// smallest column k with c[k] > u*MaxRate, scanning in ascending column
// order so the tie-break is deterministic for a given RNG stream. The
// result is 1-based (column k's collision is colls[k-1]) so that 0 is
// free to mean "no column matched" — a genuine null collision, since at
// this v the row's cumulative rate never reaches u*MaxRate.
func (rt *RateTable) GetCollIndex(v, u float64, scratch []float64) int {
	cols := rt.GetMCol(v, scratch)
	r := u * rt.MaxRate
	for k, c := range cols {
		if c > r {
			return k + 1
		}
	}
	return 0
}
