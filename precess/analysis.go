// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"math"

	"github.com/ccnlab/phase-precess/vonmises"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PrecessionFit is a circular-linear fit of spike theta phase against
// position: phase = Phase0 + Slope * x (mod 2 pi).
type PrecessionFit struct {
	Slope  float64 `desc:"phase change per cm, radians / cm -- negative for phase precession"`
	Phase0 float64 `desc:"phase at x = 0, radians"`
	R      float64 `desc:"mean resultant length of the residual phases at the best slope, in [0, 1] -- 1 = all spikes on the line"`
	N      int     `desc:"number of spikes in the fit"`
}

// FitSteps is the number of candidate slopes searched by PrecessionSlope
var FitSteps = 1001

// PrecessionSlope fits phase = Phase0 + Slope * x to circular phases.
// The slope maximizing the mean resultant length of phases - Slope * x is
// found by a grid search over [-maxSlope, maxSlope], and the offset is the
// circular mean of the residuals.  Phases are then unwrapped onto that line
// and refined by least squares.  maxSlope should be well below
// 2 pi / (spacing of xs) to avoid aliasing.
func PrecessionSlope(xs, phases []float64, maxSlope float64) PrecessionFit {
	fit := PrecessionFit{N: len(xs)}
	if len(xs) < 2 || len(phases) != len(xs) {
		return fit
	}
	slopes := make([]float64, FitSteps)
	floats.Span(slopes, -maxSlope, maxSlope)
	for _, s := range slopes {
		if r := resultant(xs, phases, s); r > fit.R {
			fit.R = r
			fit.Slope = s
		}
	}
	res := make([]float64, len(xs))
	for i, x := range xs {
		res[i] = phases[i] - fit.Slope*x
	}
	fit.Phase0 = stat.CircularMean(res, nil)

	ys := make([]float64, len(xs))
	for i, x := range xs {
		pred := fit.Phase0 + fit.Slope*x
		ys[i] = pred + wrapPi(phases[i]-pred)
	}
	fit.Phase0, fit.Slope = stat.LinearRegression(xs, ys, nil, false)
	return fit
}

// resultant returns the mean resultant length of phases - s * xs
func resultant(xs, phases []float64, s float64) float64 {
	var sc, ss float64
	for i, x := range xs {
		d := phases[i] - s*x
		sc += math.Cos(d)
		ss += math.Sin(d)
	}
	n := float64(len(xs))
	return math.Hypot(sc, ss) / n
}

// wrapPi wraps an angle into [-pi, pi)
func wrapPi(d float64) float64 {
	return vonmises.WrapPhase(d+math.Pi) - math.Pi
}

// SpikePhases returns the position and wrapped LFP theta phase of every
// spike of cell ci.
func (res *Result) SpikePhases(ci int) (xs, phases []float64) {
	for _, j := range res.SpikeIdxs(ci) {
		xs = append(xs, res.Traj.Pos[j])
		phases = append(phases, vonmises.WrapPhase(res.Params.Theta.Phase(res.Axis.Times[j], res.Params.Theta0)))
	}
	return
}

// CellPrecession fits the spike phase vs. position relation of cell ci.
// The slope search extends to twice the cell's wavenumber; under the
// independent coding model the fitted slope approaches -WaveNum.
func (res *Result) CellPrecession(ci int) PrecessionFit {
	xs, phases := res.SpikePhases(ci)
	return PrecessionSlope(xs, phases, 2*math.Abs(res.Cells[ci].WaveNum))
}

// PeakIdx returns the time index of the largest rate of cell ci
func (res *Result) PeakIdx(ci int) int {
	return floats.MaxIdx(res.RateRow(ci))
}
