// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"errors"
	"fmt"
	"math"

	"github.com/ccnlab/phase-precess/track"
)

// FieldParams are the place field and phase precession constants shared by
// all cells.  Individual cells scale the precession radius with their width.
type FieldParams struct {
	Sigma0 float64 `def:"9" min:"0" desc:"Gaussian place field width (std dev), cm"`
	R0     float64 `def:"18.75" min:"0" desc:"radius of phase precession for a field of width Sigma0, cm (Maurer et al., 2006)"`
	DPhi   float64 `def:"6.283185307179586" desc:"total phase precessed over the place field, radians"`
}

func (fp *FieldParams) Defaults() {
	fp.Sigma0 = 9
	fp.R0 = 18.75
	fp.DPhi = 2 * math.Pi
}

// Params are all of the inputs to one simulated run of the independent coding
// model: a population of place cells recorded while the animal runs the track.
type Params struct {
	Theta          track.ThetaParams `view:"inline" desc:"theta frequency, bin size (dth) and number of cycles (Ncyc)"`
	Run            track.Run         `view:"inline" desc:"running speed at t = 0 (v0) and acceleration (a)"`
	Field          FieldParams       `view:"inline" desc:"place field and precession constants"`
	Theta0         float64           `desc:"LFP theta phase at t = 0, radians"`
	NSpikes        float64           `def:"2" min:"0" desc:"mean number of spikes fired on a pass through a place field, independent of running speed"`
	Centers        []float64         `desc:"place field centers, cm, one per cell"`
	PhaseLocking   []float64         `desc:"phase locking (von Mises concentration) of each cell, >= 0"`
	Widths         []float64         `desc:"optional per-cell place field widths, cm, for a heterogeneous population -- nil = Field.Sigma0 for all cells"`
	Seed           int64             `def:"1" desc:"random seed for spike sampling"`
	NThreads       int               `def:"0" desc:"number of parallel threads (go routines) computing cells -- 0 = GOMAXPROCS"`
	MaxPSpike      float64           `def:"1" min:"0" desc:"upper bound on r*dt, the spike probability per bin, above which the thinning approximation breaks down"`
	StrictThinning bool              `desc:"if true, exceeding MaxPSpike is an error instead of a logged warning"`
}

func (pp *Params) Defaults() {
	pp.Theta.Defaults()
	pp.Run.Defaults()
	pp.Field.Defaults()
	pp.Theta0 = 0
	pp.NSpikes = 2
	pp.Centers = []float64{0}
	pp.PhaseLocking = []float64{2}
	pp.Widths = nil
	pp.Seed = 1
	pp.NThreads = 0
	pp.MaxPSpike = 1
	pp.StrictThinning = false
	pp.Update()
}

func (pp *Params) Update() {
	pp.Theta.Update()
}

// NCells returns the number of cells in the population
func (pp *Params) NCells() int { return len(pp.Centers) }

// Validate checks every input and returns all failures joined, each a
// *ParamError naming the offending value.  Nothing is allocated by Generate
// unless this returns nil.
func (pp *Params) Validate() error {
	var errs []error
	add := func(pe *ParamError) { errs = append(errs, pe) }

	if !positive(pp.Theta.Freq) {
		add(paramErr("Theta.Freq", pp.Theta.Freq, "theta frequency must be > 0"))
	}
	if !positive(pp.Theta.BinDeg) {
		add(paramErr("Theta.BinDeg", pp.Theta.BinDeg, "time bin size (dth) must be > 0"))
	}
	if !positive(pp.Theta.Cycles) {
		add(paramErr("Theta.Cycles", pp.Theta.Cycles, "number of cycles (Ncyc) must be > 0"))
	}
	if positive(pp.Theta.BinDeg) && positive(pp.Theta.Cycles) && pp.Theta.NBins() < 1 {
		add(paramErr("Theta.Cycles", pp.Theta.Cycles, "shorter than one %g deg bin", pp.Theta.BinDeg))
	}
	if !finite(pp.Run.V0) {
		add(paramErr("Run.V0", pp.Run.V0, "must be finite"))
	}
	if !finite(pp.Run.Accel) {
		add(paramErr("Run.Accel", pp.Run.Accel, "must be finite"))
	}
	if !finite(pp.Theta0) {
		add(paramErr("Theta0", pp.Theta0, "must be finite"))
	}
	if !positive(pp.NSpikes) {
		add(paramErr("NSpikes", pp.NSpikes, "must be > 0"))
	}
	if !positive(pp.Field.Sigma0) {
		add(paramErr("Field.Sigma0", pp.Field.Sigma0, "must be > 0"))
	}
	if !positive(pp.Field.R0) {
		add(paramErr("Field.R0", pp.Field.R0, "must be > 0"))
	}
	if !finite(pp.Field.DPhi) || pp.Field.DPhi == 0 {
		add(paramErr("Field.DPhi", pp.Field.DPhi, "must be finite and non-zero"))
	}
	if pp.NThreads < 0 {
		add(paramErr("NThreads", pp.NThreads, "must be >= 0"))
	}
	if !positive(pp.MaxPSpike) {
		add(paramErr("MaxPSpike", pp.MaxPSpike, "must be > 0"))
	}

	nc := len(pp.Centers)
	if nc == 0 {
		add(paramErr("Centers", nc, "need at least one place field center"))
	}
	if len(pp.PhaseLocking) != nc {
		add(paramErr("PhaseLocking", len(pp.PhaseLocking), "length must match Centers length %d", nc))
	}
	if pp.Widths != nil && len(pp.Widths) != nc {
		add(paramErr("Widths", len(pp.Widths), "length must match Centers length %d", nc))
	}
	for i, xc := range pp.Centers {
		if !finite(xc) {
			add(paramErr(fmt.Sprintf("Centers[%d]", i), xc, "must be finite"))
		}
	}
	for i, kp := range pp.PhaseLocking {
		if math.IsNaN(kp) || kp < 0 {
			add(paramErr(fmt.Sprintf("PhaseLocking[%d]", i), kp, "must be >= 0"))
		}
	}
	for i, wd := range pp.Widths {
		if !positive(wd) {
			add(paramErr(fmt.Sprintf("Widths[%d]", i), wd, "place field width must be > 0"))
		}
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
