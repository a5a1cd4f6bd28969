package engine

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// SaveState writes the engine's collision model and rate table to path
// in a little-endian binary layout: n_max, n_colls, mass, max_rate,
// then each collision descriptor, then the flattened rate table.
func (e *Engine) SaveState(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("engine: SaveState: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fields := []interface{}{
		int64(len(e.Particles)),
		int64(len(e.Colls)),
		e.Mass,
		e.Table.MaxRate,
	}
	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("engine: SaveState: %w", err)
		}
	}
	for _, c := range e.Colls {
		if err := writeCollisionDescriptor(w, c); err != nil {
			return fmt.Errorf("engine: SaveState: %w", err)
		}
	}
	if err := writeRateTable(w, e.Table); err != nil {
		return fmt.Errorf("engine: SaveState: %w", err)
	}

	return w.Flush()
}

// LoadRateTable reads back a rate table and collision descriptor set
// previously written by SaveState, without requiring a live Engine.
// Callers combine the result with Config to reconstruct an Engine via
// New.
func LoadRateTable(path string) (table *RateTable, colls []CollisionDescriptor, mass float64, nMax int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("engine: LoadRateTable: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var nMax64, nColls64 int64
	var maxRate float64
	for _, v := range []interface{}{&nMax64, &nColls64, &mass, &maxRate} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, nil, 0, 0, fmt.Errorf("engine: LoadRateTable: reading header: %w", err)
		}
	}

	colls = make([]CollisionDescriptor, nColls64)
	for i := range colls {
		c, err := readCollisionDescriptor(r)
		if err != nil {
			return nil, nil, 0, 0, fmt.Errorf("engine: LoadRateTable: collision %d: %w", i, err)
		}
		colls[i] = c
	}

	table, err = readRateTable(r)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("engine: LoadRateTable: rate table: %w", err)
	}
	if table.MaxRate != maxRate {
		return nil, nil, 0, 0, fmt.Errorf("engine: LoadRateTable: header max_rate %.6g disagrees with table %.6g", maxRate, table.MaxRate)
	}

	return table, colls, mass, int(nMax64), nil
}

func writeCollisionDescriptor(w io.Writer, c CollisionDescriptor) error {
	fields := []interface{}{int32(c.Type), c.EnLoss, c.PartMass, c.RelMass}
	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readCollisionDescriptor(r io.Reader) (CollisionDescriptor, error) {
	var c CollisionDescriptor
	var t int32
	if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
		return c, err
	}
	c.Type = CollisionType(t)
	for _, v := range []interface{}{&c.EnLoss, &c.PartMass, &c.RelMass} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return c, err
		}
	}
	return c, nil
}

func writeRateTable(w io.Writer, rt *RateTable) error {
	fields := []interface{}{rt.VMax, int64(rt.N), int64(rt.NCols), rt.MaxRate}
	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, rt.cum)
}

func readRateTable(r io.Reader) (*RateTable, error) {
	rt := &RateTable{}
	var n64, nCols64 int64
	for _, v := range []interface{}{&rt.VMax, &n64, &nCols64, &rt.MaxRate} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	rt.N = int(n64)
	rt.NCols = int(nCols64)
	rt.cum = make([]float64, rt.N*rt.NCols)
	if err := binary.Read(r, binary.LittleEndian, rt.cum); err != nil {
		return nil, err
	}
	if rt.MaxRate > 0 {
		rt.InvMaxRate = 1 / rt.MaxRate
	}
	return rt, nil
}
