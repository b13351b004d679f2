// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/ccnlab/phase-precess/track"
	"github.com/emer/etable/etensor"
)

// NewCellTimeTensor returns a Float64 tensor shaped [ncells, ntimes]
func NewCellTimeTensor(ncells, ntimes int) *etensor.Float64 {
	return etensor.NewFloat64([]int{ncells, ntimes}, nil, []string{"Cell", "Time"})
}

// Rates assembles the intensity surface r[cell, time] =
// Amplitude * PhaseField * PlaceField for every cell at every sample of the
// trajectory.  Cells are split across nthr go routines (0 = GOMAXPROCS); each
// value depends only on its own cell and sample, so the result is identical
// for any thread count.  A cell that fails Check, or that produces a
// non-finite rate, keeps an all-zero row and has its error at its index in
// the returned slice (nil for good cells).
func Rates(pp *Params, ax *track.TimeAxis, tr *track.Trajectory, cells []Cell, nthr int) (*etensor.Float64, []error) {
	nc := len(cells)
	nt := ax.Len()
	rates := NewCellTimeTensor(nc, nt)
	cellErrs := make([]error, nc)
	ThrCellFun(nc, nthr, func(ci int) {
		row := rates.Values[ci*nt : (ci+1)*nt]
		cellErrs[ci] = CellRates(pp, ax, tr, &cells[ci], row)
	})
	return rates, cellErrs
}

// CellRates computes the rates of one cell into row, which must have one
// entry per time sample.  On error the row is zeroed.
func CellRates(pp *Params, ax *track.TimeAxis, tr *track.Trajectory, c *Cell, row []float64) error {
	if err := c.Check(); err != nil {
		return err
	}
	for j, t := range ax.Times {
		x := tr.Pos[j]
		amp := c.Amplitude(pp.NSpikes, tr.Vel[j])
		phs := c.PhaseField(c.Psi(&pp.Theta, pp.Theta0, t, x))
		plc := c.PlaceField(x)
		r := amp * phs * plc
		if math.IsNaN(r) || math.IsInf(r, 0) {
			for k := range row {
				row[k] = 0
			}
			// an infinite factor is an overflow even when another factor is 0
			kind := NumericDegenerate
			if math.IsInf(amp, 0) || math.IsInf(phs, 0) || math.IsInf(plc, 0) || math.IsInf(r, 0) {
				kind = NumericOverflow
			}
			return &CellError{Cell: c.Idx, Kind: kind, Msg: fmt.Sprintf("rate %g (amplitude %g, phase %g, place %g) at t = %g s, x = %g cm", r, amp, phs, plc, t, x)}
		}
		row[j] = r
	}
	return nil
}

// NThreads returns the number of threads to use for ncells given a
// requested count, where 0 means GOMAXPROCS.
func NThreads(req, ncells int) int {
	nthr := req
	if nthr <= 0 {
		nthr = runtime.GOMAXPROCS(0)
	}
	if nthr > ncells {
		nthr = ncells
	}
	if nthr < 1 {
		nthr = 1
	}
	return nthr
}

// ThrCellFun calls fun for each cell index in [0, ncells), using nthr go
// routines (0 = GOMAXPROCS) that each take every nthr'th cell.
func ThrCellFun(ncells, nthr int, fun func(ci int)) {
	nthr = NThreads(nthr, ncells)
	if nthr <= 1 {
		for ci := 0; ci < ncells; ci++ {
			fun(ci)
		}
		return
	}
	var waitGp sync.WaitGroup
	for th := 0; th < nthr; th++ {
		waitGp.Add(1)
		go func(th int) {
			defer waitGp.Done()
			for ci := th; ci < ncells; ci += nthr {
				fun(ci)
			}
		}(th)
	}
	waitGp.Wait()
}
