// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"strconv"

	"github.com/ccnlab/phase-precess/track"
	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 4

// ConfigCellLog configures a table with one row per cell
func ConfigCellLog(dt *etable.Table) {
	dt.SetMetaData("name", "CellLog")
	dt.SetMetaData("desc", "Per-cell tuning, expected and observed spike counts")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Cell", etensor.INT64, nil, nil},
		{"Center", etensor.FLOAT64, nil, nil},
		{"Width", etensor.FLOAT64, nil, nil},
		{"Kappa", etensor.FLOAT64, nil, nil},
		{"Radius", etensor.FLOAT64, nil, nil},
		{"WaveNum", etensor.FLOAT64, nil, nil},
		{"Expected", etensor.FLOAT64, nil, nil},
		{"Observed", etensor.FLOAT64, nil, nil},
		{"PeakTime", etensor.FLOAT64, nil, nil},
		{"PeakRate", etensor.FLOAT64, nil, nil},
		{"Slope", etensor.FLOAT64, nil, nil},
		{"Err", etensor.STRING, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
}

// LogCells writes one row per cell of the result into dt, which must have
// been configured by ConfigCellLog.  Slope is the fitted phase precession
// slope (0 with fewer than 2 spikes).
func (res *Result) LogCells(dt *etable.Table) {
	nc := res.NCells()
	dt.SetNumRows(nc)
	exp := res.ExpectedCounts()
	obs := res.SpikeCounts()
	for ci := range res.Cells {
		c := &res.Cells[ci]
		pk := res.PeakIdx(ci)
		dt.SetCellFloat("Cell", ci, float64(ci))
		dt.SetCellFloat("Center", ci, c.Center)
		dt.SetCellFloat("Width", ci, c.Width)
		dt.SetCellFloat("Kappa", ci, c.VM.Kappa)
		dt.SetCellFloat("Radius", ci, c.Radius)
		dt.SetCellFloat("WaveNum", ci, c.WaveNum)
		dt.SetCellFloat("Expected", ci, exp[ci])
		dt.SetCellFloat("Observed", ci, float64(obs[ci]))
		dt.SetCellFloat("PeakTime", ci, res.Axis.Times[pk])
		dt.SetCellFloat("PeakRate", ci, res.RateRow(ci)[pk])
		dt.SetCellFloat("Slope", ci, res.CellPrecession(ci).Slope)
		errs := ""
		if res.Failed(ci) {
			errs = res.CellErrs[ci].Error()
		}
		dt.SetCellString("Err", ci, errs)
	}
}

// LogMean returns the population mean of a column of a cell log
func LogMean(dt *etable.Table, colNm string) float64 {
	return agg.Mean(etable.NewIdxView(dt), colNm)[0]
}

// ConfigSpikeLog configures a table with one row per spike
func ConfigSpikeLog(dt *etable.Table) {
	dt.SetMetaData("name", "SpikeLog")
	dt.SetMetaData("desc", "Every spike with its position and LFP theta phase")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Cell", etensor.INT64, nil, nil},
		{"Time", etensor.FLOAT64, nil, nil},
		{"Pos", etensor.FLOAT64, nil, nil},
		{"Dist", etensor.FLOAT64, nil, nil},
		{"Phase", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
}

// LogSpikes writes every spike into dt, configured by ConfigSpikeLog,
// ordered by cell then time.  Dist is position minus field center, and
// Phase is the LFP theta phase in [0, 2pi).
func (res *Result) LogSpikes(dt *etable.Table) {
	row := 0
	dt.SetNumRows(0)
	for ci := range res.Cells {
		xs, phs := res.SpikePhases(ci)
		idxs := res.SpikeIdxs(ci)
		dt.SetNumRows(row + len(idxs))
		for i, j := range idxs {
			dt.SetCellFloat("Cell", row, float64(ci))
			dt.SetCellFloat("Time", row, res.Axis.Times[j])
			dt.SetCellFloat("Pos", row, xs[i])
			dt.SetCellFloat("Dist", row, xs[i]-res.Cells[ci].Center)
			dt.SetCellFloat("Phase", row, phs[i])
			row++
		}
	}
}

// ConfigCycleLog configures a table with one row per theta cycle
func ConfigCycleLog(dt *etable.Table) {
	dt.SetMetaData("name", "CycleLog")
	dt.SetMetaData("desc", "Population spikes and position per theta cycle")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{"Cycle", etensor.INT64, nil, nil},
		{"StTime", etensor.FLOAT64, nil, nil},
		{"NBins", etensor.INT64, nil, nil},
		{"Spikes", etensor.INT64, nil, nil},
		{"Pos", etensor.FLOAT64, nil, nil},
		{"Vel", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
}

// LogCycles steps a track.Env through the run and writes one row per
// theta cycle into dt, configured by ConfigCycleLog: the start time, number
// of bins, spikes summed over all cells, and mean position and velocity.
// The first and last rows are partial cycles.
func (res *Result) LogCycles(dt *etable.Table) {
	ev := &track.Env{}
	ev.Config(res.Params.Theta, res.Params.Theta0, res.Axis, res.Traj)
	ev.Init(0)
	dt.SetNumRows(0)
	row := -1
	var nbins, nspk int
	var sumPos, sumVel float64
	flush := func() {
		if row < 0 || nbins == 0 {
			return
		}
		dt.SetCellFloat("NBins", row, float64(nbins))
		dt.SetCellFloat("Spikes", row, float64(nspk))
		dt.SetCellFloat("Pos", row, sumPos/float64(nbins))
		dt.SetCellFloat("Vel", row, sumVel/float64(nbins))
	}
	nc := res.NCells()
	for ev.Step() {
		if row < 0 || ev.Cycle.Chg {
			flush()
			row++
			dt.SetNumRows(row + 1)
			dt.SetCellFloat("Cycle", row, float64(ev.Cycle.Cur))
			dt.SetCellFloat("StTime", row, ev.Time)
			nbins, nspk = 0, 0
			sumPos, sumVel = 0, 0
		}
		j := ev.Bin.Cur
		for ci := 0; ci < nc; ci++ {
			if res.Spikes.Value([]int{ci, j}) {
				nspk++
			}
		}
		nbins++
		sumPos += ev.Pos.Cur
		sumVel += ev.Traj.Vel[j]
	}
	flush()
}
