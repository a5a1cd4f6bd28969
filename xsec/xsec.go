// Package xsec provides cross-section data and the narrow interface the
// engine package consumes it through: this package owns the file
// format, the core only ever sees the tabulated (energy, rate) pairs.
package xsec

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// CrossSection is a cross-section sigma(E) tabulated by energy, ascending
// in EnergyEV. Rate[i] corresponds to EnergyEV[i].
type CrossSection struct {
	Name     string
	EnergyEV []float64
	Rate     []float64 // sigma(E), m^2
}

// Provider loads a CrossSection from some external source. The engine
// package depends only on this interface, never on a concrete file
// format.
type Provider interface {
	Load(path string) (CrossSection, error)
}

// row is the CSV row shape read via gocsv's struct-tag mapping.
type row struct {
	EnergyEV     float64 `csv:"energy_ev"`
	CrossSection float64 `csv:"cross_section_m2"`
}

// CSVProvider reads cross-section tables from two-column CSV files with
// a header row "energy_ev,cross_section_m2".
type CSVProvider struct{}

// Load implements Provider.
func (CSVProvider) Load(path string) (CrossSection, error) {
	f, err := os.Open(path)
	if err != nil {
		return CrossSection{}, fmt.Errorf("xsec: opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return CrossSection{}, fmt.Errorf("xsec: parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return CrossSection{}, fmt.Errorf("xsec: %s has no data rows", path)
	}

	cs := CrossSection{
		Name:     path,
		EnergyEV: make([]float64, len(rows)),
		Rate:     make([]float64, len(rows)),
	}
	for i, r := range rows {
		cs.EnergyEV[i] = r.EnergyEV
		cs.Rate[i] = r.CrossSection
	}
	return cs, nil
}

// Interp linearly interpolates the cross-section at energy eV, clamping
// to the table's endpoints outside its range.
func (cs CrossSection) Interp(energyEV float64) float64 {
	n := len(cs.EnergyEV)
	if n == 0 {
		return 0
	}
	if energyEV <= cs.EnergyEV[0] {
		return cs.Rate[0]
	}
	if energyEV >= cs.EnergyEV[n-1] {
		return cs.Rate[n-1]
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if cs.EnergyEV[mid] <= energyEV {
			lo = mid
		} else {
			hi = mid
		}
	}
	e0, e1 := cs.EnergyEV[lo], cs.EnergyEV[hi]
	r0, r1 := cs.Rate[lo], cs.Rate[hi]
	if e1 == e0 {
		return r0
	}
	frac := (energyEV - e0) / (e1 - e0)
	return r0 + frac*(r1-r0)
}
