// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package track provides the time base and kinematics of an animal running along a
linear track under a theta-band LFP: the simulation time axis, expressed in
bins of theta phase, and the velocity and position of the animal at each bin.
Env steps through a computed trajectory one bin at a time, keeping theta
cycle counters, for code that wants to process a run incrementally.
*/
package track

import (
	"fmt"
	"math"
)

// ThetaParams are the theta LFP timing parameters that set the simulation time base.
type ThetaParams struct {
	Freq   float64 `def:"8" min:"0" desc:"LFP theta frequency in Hz -- the single domain assumption of the model, overridable for testing"`
	BinDeg float64 `def:"6" min:"0" desc:"size of a time bin in degrees of theta phase"`
	Cycles float64 `def:"4" min:"0" desc:"length of the simulation in theta cycles, centered on t = 0"`

	Dt float64 `view:"-" inactive:"+" desc:"duration of one time bin in seconds: BinDeg / (Freq * 360)"`
}

func (tp *ThetaParams) Defaults() {
	tp.Freq = 8
	tp.BinDeg = 6
	tp.Cycles = 4
	tp.Update()
}

func (tp *ThetaParams) Update() {
	tp.Dt = tp.BinDeg / (tp.Freq * 360)
}

// Validate checks that all theta params are positive and finite.
func (tp *ThetaParams) Validate() error {
	switch {
	case !positive(tp.Freq):
		return fmt.Errorf("track: theta Freq must be > 0, got %g", tp.Freq)
	case !positive(tp.BinDeg):
		return fmt.Errorf("track: BinDeg must be > 0, got %g", tp.BinDeg)
	case !positive(tp.Cycles):
		return fmt.Errorf("track: Cycles must be > 0, got %g", tp.Cycles)
	}
	return nil
}

// NBins returns the number of bins spanned by Cycles, which is one less
// than the number of samples on the axis.
func (tp *ThetaParams) NBins() int {
	return int(math.Round(tp.Cycles * 360 / tp.BinDeg))
}

// Phase returns the LFP theta phase in radians at time t, given the
// phase theta0 at t = 0.  The result is not wrapped.
func (tp *ThetaParams) Phase(t, theta0 float64) float64 {
	return 2*math.Pi*tp.Freq*t + theta0
}

// TimeAxis is the ordered sequence of simulation time samples, in seconds,
// with fixed spacing Dt.
type TimeAxis struct {
	Times []float64 `desc:"sample times in seconds, strictly increasing"`
	Dt    float64   `desc:"spacing between samples, in seconds"`
}

// Axis generates the time axis for Cycles theta cycles, one sample per bin,
// spanning [-Cycles/(2 Freq), +Cycles/(2 Freq)].  Sample j is at
// (2j - n) * Dt / 2 for j = 0..n, so the axis is exactly antisymmetric about
// zero and contains t = 0 whenever n is even.
func (tp *ThetaParams) Axis() (*TimeAxis, error) {
	if err := tp.Validate(); err != nil {
		return nil, err
	}
	tp.Update()
	n := tp.NBins()
	if n < 1 {
		return nil, fmt.Errorf("track: %g cycles at %g deg bins gives no bins", tp.Cycles, tp.BinDeg)
	}
	ax := &TimeAxis{Dt: tp.Dt, Times: make([]float64, n+1)}
	for j := range ax.Times {
		ax.Times[j] = float64(2*j-n) * tp.Dt / 2
	}
	return ax, nil
}

// Len returns the number of samples
func (ax *TimeAxis) Len() int { return len(ax.Times) }

// Span returns the first and last sample times
func (ax *TimeAxis) Span() (st, ed float64) {
	return ax.Times[0], ax.Times[len(ax.Times)-1]
}

// Nearest returns the index of the sample closest to time t
func (ax *TimeAxis) Nearest(t float64) int {
	j := int(math.Round((t - ax.Times[0]) / ax.Dt))
	if j < 0 {
		return 0
	}
	if j >= len(ax.Times) {
		return len(ax.Times) - 1
	}
	return j
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
