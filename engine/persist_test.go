package engine

import (
	"path/filepath"
	"testing"

	"github.com/rfeldman/picmcc/xsec"
)

func TestSaveAndLoadRateTableRoundTrip(t *testing.T) {
	colls := []CollisionDescriptor{
		{Type: Elastic, EnLoss: 0, PartMass: 9.1e-31, RelMass: 1},
		{Type: Ionize, EnLoss: 1.6e-18, PartMass: 9.1e-31, RelMass: 1},
	}
	xsecs := []xsec.CrossSection{constantCrossSection(1e-19), constantCrossSection(2e-20)}
	table, err := BuildRateTable(colls, xsecs, 9.1e-31, 20, 200, 1e20)
	if err != nil {
		t.Fatalf("BuildRateTable: %v", err)
	}

	e := New(Config{
		Mass:  9.1e-31,
		Colls: colls,
		Table: table,
		NMax:  8,
		DtMax: 1e-9,
		Accel: func(*Particle) [3]float64 { return [3]float64{} },
	})

	path := filepath.Join(t.TempDir(), "state.bin")
	if err := e.SaveState(path); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	loadedTable, loadedColls, mass, nMax, err := LoadRateTable(path)
	if err != nil {
		t.Fatalf("LoadRateTable: %v", err)
	}

	if nMax != 8 {
		t.Errorf("nMax = %d, want 8", nMax)
	}
	if mass != e.Mass {
		t.Errorf("mass = %v, want %v", mass, e.Mass)
	}
	if len(loadedColls) != len(colls) {
		t.Fatalf("loaded %d collisions, want %d", len(loadedColls), len(colls))
	}
	for i, c := range colls {
		if loadedColls[i] != c {
			t.Errorf("collision %d = %+v, want %+v", i, loadedColls[i], c)
		}
	}

	if loadedTable.N != table.N || loadedTable.NCols != table.NCols {
		t.Errorf("loaded table shape %dx%d, want %dx%d", loadedTable.N, loadedTable.NCols, table.N, table.NCols)
	}
	if loadedTable.MaxRate != table.MaxRate {
		t.Errorf("loaded MaxRate = %v, want %v", loadedTable.MaxRate, table.MaxRate)
	}

	scratch := make([]float64, table.NCols)
	gotOrig := table.GetMCol(table.VMax*0.5, scratch)
	gotLoaded := loadedTable.GetMCol(table.VMax*0.5, nil)
	for k := range gotOrig {
		if gotOrig[k] != gotLoaded[k] {
			t.Errorf("column %d: original %v, loaded %v", k, gotOrig[k], gotLoaded[k])
		}
	}
}
