// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package precess simulates the spiking of a population of hippocampal place cells
on a linear track under the independent coding model of theta phase precession.

Each cell fires as an inhomogeneous Poisson process whose rate is the product of
a Gaussian place field, a von Mises tuning to the phase of a travelling theta
wave (the cell's phase advances linearly as the animal crosses the field), and a
speed-dependent amplitude that keeps the expected number of spikes per pass
through the field constant.  Cells are independent: there are no interactions
and no population-level correlations beyond the shared trajectory and LFP.

Generate runs the whole pipeline once: time axis, trajectory, cell constants,
rates (in parallel across cells), and spike sampling from a seeded source.
*/
package precess

import (
	"errors"
	"log"

	"github.com/ccnlab/phase-precess/track"
	"github.com/emer/emergent/timer"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/tsragg"
	"gonum.org/v1/gonum/floats"
)

// Result holds everything computed by one run of Generate.
type Result struct {
	Params    Params                 `desc:"copy of the parameters used"`
	Axis      *track.TimeAxis        `desc:"simulation time samples"`
	Traj      *track.Trajectory      `desc:"velocity and position at each time sample"`
	Cells     []Cell                 `desc:"derived per-cell constants"`
	Rates     *etensor.Float64       `desc:"intensity surface r, [Cell, Time], spikes / s"`
	Spikes    *etensor.Bits          `desc:"one realization of spikes, [Cell, Time]"`
	Dt        float64                `desc:"time bin duration, s"`
	MaxPSpike float64                `desc:"largest r * dt over all cells and times -- the thinning approximation needs this well below 1"`
	CellErrs  []error                `desc:"numeric error for each cell that could not be computed, nil otherwise -- its rates and spikes are zero"`
	Timers    map[string]*timer.Time `view:"-" desc:"compute time for each stage"`
}

// Generate validates the params and runs the full simulation.  Parameter
// errors are returned before anything is allocated, with a nil Result.
// Per-cell numeric errors do not stop the run: the Result is returned
// together with the joined cell errors, and Result.CellErrs says which cells
// failed, so "no spikes" can be told apart from "not computed".
func Generate(pp *Params) (*Result, error) {
	pp.Update()
	if err := pp.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Params: *pp, Timers: make(map[string]*timer.Time)}
	tm := res.timer("Axis")
	ax, err := pp.Theta.Axis()
	tm.Stop()
	if err != nil {
		return nil, paramErr("Theta", pp.Theta, "%v", err)
	}
	res.Axis = ax
	res.Dt = ax.Dt

	tm = res.timer("Trajectory")
	res.Traj, err = pp.Run.Trajectory(ax)
	tm.Stop()
	if err != nil {
		return nil, errors.Join(ErrNumericOverflow, err)
	}

	res.Cells, err = pp.Cells()
	if err != nil {
		return nil, err
	}

	tm = res.timer("Rates")
	res.Rates, res.CellErrs = Rates(pp, ax, res.Traj, res.Cells, pp.NThreads)
	tm.Stop()

	res.MaxPSpike = tsragg.Max(res.Rates) * res.Dt
	if res.MaxPSpike > pp.MaxPSpike {
		if pp.StrictThinning {
			return nil, paramErr("MaxPSpike", pp.MaxPSpike, "max rate * dt = %g: thinning approximation breaks down, use a smaller Theta.BinDeg", res.MaxPSpike)
		}
		log.Printf("precess: max rate * dt = %g exceeds %g: spike sampling under-counts, use a smaller Theta.BinDeg\n", res.MaxPSpike, pp.MaxPSpike)
	}

	tm = res.timer("Sample")
	res.Spikes = Sample(res.Rates, res.Dt, pp.Seed, pp.NThreads)
	tm.Stop()

	return res, errors.Join(res.CellErrs...)
}

// GenerateIndependentSpikes runs the model from positional arguments, all
// other params at their defaults, returning the spike and rate tensors.
// v0 = running speed at t = 0, a = acceleration, dth = bin size in degrees of
// theta, phaseLocking = per-cell phase locking, ncyc = number of theta cycles,
// theta0 = LFP phase at t = 0, nspikes = mean spikes per field traversal,
// xc = place field centers.
func GenerateIndependentSpikes(v0, a, dth float64, phaseLocking []float64, ncyc, theta0, nspikes float64, xc []float64, seed int64) (*etensor.Bits, *etensor.Float64, error) {
	pp := &Params{}
	pp.Defaults()
	pp.Run.V0 = v0
	pp.Run.Accel = a
	pp.Theta.BinDeg = dth
	pp.Theta.Cycles = ncyc
	pp.Theta0 = theta0
	pp.NSpikes = nspikes
	pp.Centers = xc
	pp.PhaseLocking = phaseLocking
	pp.Seed = seed
	res, err := Generate(pp)
	if res == nil {
		return nil, nil, err
	}
	return res.Spikes, res.Rates, err
}

func (res *Result) timer(stage string) *timer.Time {
	tm := &timer.Time{}
	res.Timers[stage] = tm
	tm.Start()
	return tm
}

// NCells returns the number of cells (rows)
func (res *Result) NCells() int { return len(res.Cells) }

// NTimes returns the number of time samples (columns)
func (res *Result) NTimes() int { return res.Axis.Len() }

// RateRow returns the rates of cell ci over time, as a view into Rates
func (res *Result) RateRow(ci int) []float64 {
	nt := res.NTimes()
	return res.Rates.Values[ci*nt : (ci+1)*nt]
}

// SpikeIdxs returns the time sample indexes at which cell ci spiked
func (res *Result) SpikeIdxs(ci int) []int {
	var idxs []int
	for j := 0; j < res.NTimes(); j++ {
		if res.Spikes.Value([]int{ci, j}) {
			idxs = append(idxs, j)
		}
	}
	return idxs
}

// SpikeCounts returns the number of spikes of each cell
func (res *Result) SpikeCounts() []int {
	cnts := make([]int, res.NCells())
	for ci := range cnts {
		cnts[ci] = len(res.SpikeIdxs(ci))
	}
	return cnts
}

// ExpectedCounts returns the expected number of spikes of each cell over
// the run: the sum of rate * dt.
func (res *Result) ExpectedCounts() []float64 {
	exp := make([]float64, res.NCells())
	for ci := range exp {
		exp[ci] = floats.Sum(res.RateRow(ci)) * res.Dt
	}
	return exp
}

// Failed returns true if cell ci could not be computed
func (res *Result) Failed(ci int) bool {
	return res.CellErrs[ci] != nil
}
