// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// countTol is the relative tolerance on mean expected spikes per field
const countTol = 0.02

func testSim(t *testing.T) *Sim {
	t.Helper()
	ss := &Sim{}
	ss.New()
	ss.NCells = 4
	ss.Speeds = []float64{10, 40}
	if err := ss.Config(); err != nil {
		t.Fatal(err)
	}
	return ss
}

func TestRunSpeed(t *testing.T) {
	ss := testSim(t)
	for si, spd := range ss.Speeds {
		vals := make([]float64, len(sweepStats))
		if err := ss.RunSpeed(si, vals); err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinRel(vals[0], ss.Params.NSpikes, countTol) {
			t.Errorf("speed %v: mean expected %v, want %v", spd, vals[0], ss.Params.NSpikes)
		}
		if vals[3] <= 0 || vals[3] >= 1 {
			t.Errorf("speed %v: max r*dt %v", spd, vals[3])
		}
	}
}

func TestRun(t *testing.T) {
	ss := &Sim{}
	ss.New()
	ss.NCells = 4
	ss.Speeds = []float64{10, 40}
	if err := ss.Run(); err != nil {
		t.Fatal(err)
	}
	dt := ss.SweepLog
	if dt.Rows != 2 {
		t.Fatalf("sweep rows: %d", dt.Rows)
	}
	for si, spd := range ss.Speeds {
		if dt.CellFloat("Speed", si) != spd {
			t.Errorf("row %d speed %v", si, dt.CellFloat("Speed", si))
		}
		if !scalar.EqualWithinRel(dt.CellFloat("Expected", si), ss.Params.NSpikes, countTol) {
			t.Errorf("row %d expected %v", si, dt.CellFloat("Expected", si))
		}
		if dt.CellFloat("Observed", si) <= 0 {
			t.Errorf("row %d: no spikes", si)
		}
	}
}
