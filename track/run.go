// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Run has the kinematic parameters of one pass along the track:
// constant acceleration from an initial running speed at t = 0.
type Run struct {
	V0    float64 `def:"20" desc:"running speed at t = 0, cm/s"`
	Accel float64 `def:"0" desc:"acceleration in cm/s^2 -- 0 for a constant-speed run"`
}

func (rn *Run) Defaults() {
	rn.V0 = 20
	rn.Accel = 0
}

// Trajectory is the running velocity and position of the animal at each
// sample of a TimeAxis.
type Trajectory struct {
	Vel []float64 `desc:"velocity at each time sample, cm/s"`
	Pos []float64 `desc:"position on the track at each time sample, cm -- 0 at t = 0"`
}

// Trajectory computes velocity and position at each sample of the axis.
// Acceleration scales each sample independently:
// Vel = V0 + Accel*t, Pos = V0*t + Accel*t^2/2.
func (rn *Run) Trajectory(ax *TimeAxis) (*Trajectory, error) {
	n := ax.Len()
	tr := &Trajectory{Vel: make([]float64, n), Pos: make([]float64, n)}
	for j, t := range ax.Times {
		tr.Vel[j] = rn.V0 + rn.Accel*t
		tr.Pos[j] = rn.V0*t + 0.5*rn.Accel*t*t
	}
	if !finite(tr.Vel) || !finite(tr.Pos) {
		return nil, fmt.Errorf("track: trajectory for V0 %g, Accel %g is not finite", rn.V0, rn.Accel)
	}
	return tr, nil
}

// Len returns the number of samples
func (tr *Trajectory) Len() int { return len(tr.Pos) }

// Nearest returns the index of the sample whose position is closest to x.
// Ties go to the earliest sample.
func (tr *Trajectory) Nearest(x float64) int {
	return floats.NearestIdx(tr.Pos, x)
}

// MaxSpeed returns the largest absolute velocity over the run
func (tr *Trajectory) MaxSpeed() float64 {
	mx := 0.0
	for _, v := range tr.Vel {
		mx = math.Max(mx, math.Abs(v))
	}
	return mx
}

func finite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
