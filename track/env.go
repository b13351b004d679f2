// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import (
	"fmt"

	"github.com/ccnlab/phase-precess/vonmises"
	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// Env steps through a precomputed run on the linear track one time bin at
// a time, tracking the LFP theta phase and counting theta cycles.
// Cycle boundaries are where the theta phase wraps through zero.
type Env struct {
	Nm     string      `desc:"name of this environment"`
	Dsc    string      `desc:"description of this environment"`
	Theta  ThetaParams `desc:"theta timing parameters used to build the axis"`
	Theta0 float64     `desc:"LFP theta phase at t = 0, radians"`
	Axis   *TimeAxis   `view:"-" desc:"time axis being stepped"`
	Traj   *Trajectory `view:"-" desc:"trajectory aligned to Axis"`
	Bin    env.Ctr     `view:"inline" desc:"current time bin, index into Axis"`
	Cycle  env.Ctr     `view:"inline" desc:"current theta cycle, counted from the start of the axis"`

	// current state below (params above)
	Time      float64                     `inactive:"+" desc:"current time, seconds"`
	Phase     float64                     `inactive:"+" desc:"current LFP theta phase in [0, 2pi)"`
	PosF      mat32.Vec2                  `inactive:"+" desc:"current location of the animal, X along the track, floating point"`
	Pos       CurPrvVel                   `inactive:"+" desc:"track position: current, previous and per-bin displacement"`
	CurStates map[string]*etensor.Float32 `desc:"current rendered state tensors"`
}

func (ev *Env) Name() string { return ev.Nm }
func (ev *Env) Desc() string { return ev.Dsc }

// Config configures the env for the given axis and trajectory
func (ev *Env) Config(th ThetaParams, theta0 float64, ax *TimeAxis, tr *Trajectory) {
	if ev.Nm == "" {
		ev.Nm = "Track"
		ev.Dsc = "linear track run under theta"
	}
	ev.Theta = th
	ev.Theta.Update()
	ev.Theta0 = theta0
	ev.Axis = ax
	ev.Traj = tr

	ev.CurStates = make(map[string]*etensor.Float32)
	for _, nm := range []string{"Position", "Velocity", "Phase"} {
		st := &etensor.Float32{}
		st.SetShape([]int{1}, nil, []string{"1"})
		ev.CurStates[nm] = st
	}
}

func (ev *Env) Validate() error {
	if ev.Axis == nil || ev.Traj == nil {
		return fmt.Errorf("track.Env: %v has no axis / trajectory -- need to Config", ev.Nm)
	}
	if ev.Axis.Len() != ev.Traj.Len() {
		return fmt.Errorf("track.Env: %v axis has %d samples but trajectory has %d", ev.Nm, ev.Axis.Len(), ev.Traj.Len())
	}
	return nil
}

// Init positions the env before the first sample: the first Step moves to bin 0.
func (ev *Env) Init(run int) {
	ev.Bin.Init()
	ev.Bin.Max = 0
	ev.Bin.Cur = -1
	ev.Cycle.Init()
	ev.Cycle.Max = 0
	ev.Pos.Init(0)
}

// Step advances to the next time bin, returning false when past the end of the axis.
func (ev *Env) Step() bool {
	ev.Cycle.Same()
	ev.Bin.Incr()
	j := ev.Bin.Cur
	if j >= ev.Axis.Len() {
		return false
	}
	prvPh := ev.Phase
	ev.Time = ev.Axis.Times[j]
	ev.Phase = vonmises.WrapPhase(ev.Theta.Phase(ev.Time, ev.Theta0))
	if j == 0 {
		ev.Pos.Init(ev.Traj.Pos[0])
	} else {
		ev.Pos.Update(ev.Traj.Pos[j])
		if ev.Phase < prvPh {
			ev.Cycle.Incr()
		}
	}
	ev.PosF.Set(float32(ev.Pos.Cur), 0)
	ev.CurStates["Position"].Values[0] = ev.PosF.X
	ev.CurStates["Velocity"].Values[0] = float32(ev.Traj.Vel[j])
	ev.CurStates["Phase"].Values[0] = float32(ev.Phase)
	return true
}

// State returns the named state tensor: Position, Velocity or Phase
func (ev *Env) State(element string) etensor.Tensor {
	return ev.CurStates[element]
}

// String returns the current state as a string
func (ev *Env) String() string {
	return fmt.Sprintf("Bin_%d_Cyc_%d_Pos_%.3g", ev.Bin.Cur, ev.Cycle.Cur, ev.PosF.X)
}
