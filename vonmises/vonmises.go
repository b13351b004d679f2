// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package vonmises provides the circular Gaussian (von Mises) phasic tuning curve
used to model how sharply a neuron's spikes lock to a preferred phase of the
theta LFP, together with the modified Bessel function I0 that normalizes it.

The tuning curve exp(kappa * cos(psi)) is left unnormalized: it peaks at
exp(kappa) for psi = 0 and is flat (1) for kappa = 0.  Its average over a full
cycle is I0(kappa), so dividing by I0 gives a unit-mean phase modulation.
*/
package vonmises

import (
	"fmt"
	"math"
)

// Params are the von Mises phase tuning parameters for one neuron.
type Params struct {
	Kappa float64 `def:"2" min:"0" desc:"concentration (phase locking) -- higher values give spikes clustered more tightly around the preferred phase, 0 = no phase preference"`

	Norm float64 `view:"-" json:"-" xml:"-" desc:"I0(Kappa) -- average of the tuning curve over one cycle"`
}

func (vp *Params) Defaults() {
	vp.Kappa = 2
	vp.Update()
}

func (vp *Params) Update() {
	vp.Norm = I0(vp.Kappa)
}

// Validate returns an error if Kappa is negative, not finite, or so large that
// the tuning curve cannot be represented.
func (vp *Params) Validate() error {
	if math.IsNaN(vp.Kappa) || vp.Kappa < 0 {
		return fmt.Errorf("vonmises: Kappa must be >= 0, got %g", vp.Kappa)
	}
	if vp.Kappa > MaxKappa {
		return fmt.Errorf("vonmises: Kappa %g exceeds representable maximum %g", vp.Kappa, MaxKappa)
	}
	return nil
}

// Tuning returns the unnormalized tuning value exp(Kappa * cos(psi))
func (vp *Params) Tuning(psi float64) float64 {
	return Tuning(vp.Kappa, psi)
}

// Scaled returns exp(Kappa * (cos(psi) - 1)), the tuning curve divided by
// its peak, which never overflows.
func (vp *Params) Scaled(psi float64) float64 {
	return math.Exp(vp.Kappa * (math.Cos(psi) - 1))
}

// Density returns the normalized von Mises probability density at psi.
// Uses the scaled forms so it is finite for any valid Kappa.
func (vp *Params) Density(psi float64) float64 {
	return vp.Scaled(psi) / (2 * math.Pi * I0e(vp.Kappa))
}

// Tuning returns the unnormalized von Mises tuning value exp(kappa * cos(psi)).
func Tuning(kappa, psi float64) float64 {
	return math.Exp(kappa * math.Cos(psi))
}

// WrapPhase wraps a phase in radians into [0, 2pi)
func WrapPhase(psi float64) float64 {
	ph := math.Mod(psi, 2*math.Pi)
	if ph < 0 {
		ph += 2 * math.Pi
	}
	if ph >= 2*math.Pi { // -tiny + 2pi rounds up
		ph = 0
	}
	return ph
}
