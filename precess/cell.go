// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"fmt"
	"math"

	"github.com/ccnlab/phase-precess/track"
	"github.com/ccnlab/phase-precess/vonmises"
)

// Cell is one place cell with its derived tuning constants.
// Cells are created once per run by Params.Cells and not modified after.
type Cell struct {
	Idx     int             `desc:"index of the cell in the population (row in the rate and spike tensors)"`
	Center  float64         `desc:"place field center, cm"`
	Width   float64         `desc:"Gaussian place field width (std dev), cm"`
	Radius  float64         `desc:"radius of phase precession, cm: R0 * Width / Sigma0"`
	WaveNum float64         `desc:"wavenumber of the precession travelling wave, radians / cm: DPhi / (2 * Radius)"`
	VM      vonmises.Params `desc:"von Mises phase tuning -- Kappa is the phase locking"`
}

// Cells derives the tuning constants for each cell.  Widths default to
// Field.Sigma0 unless Params.Widths is set (heterogeneous population).
func (pp *Params) Cells() ([]Cell, error) {
	nc := pp.NCells()
	if len(pp.PhaseLocking) != nc {
		return nil, paramErr("PhaseLocking", len(pp.PhaseLocking), "length must match Centers length %d", nc)
	}
	cells := make([]Cell, nc)
	for i := range cells {
		c := &cells[i]
		c.Idx = i
		c.Center = pp.Centers[i]
		c.Width = pp.Field.Sigma0
		if pp.Widths != nil {
			c.Width = pp.Widths[i]
		}
		if !positive(c.Width) {
			return nil, paramErr(fmt.Sprintf("Widths[%d]", i), c.Width, "place field width must be > 0")
		}
		c.Radius = pp.Field.R0 * (c.Width / pp.Field.Sigma0)
		c.WaveNum = pp.Field.DPhi / (2 * c.Radius)
		c.VM.Kappa = pp.PhaseLocking[i]
		if c.VM.Kappa <= vonmises.MaxKappa {
			c.VM.Update()
		}
	}
	return cells, nil
}

// Check returns a *CellError if the cell's constants cannot produce finite
// rates: phase locking beyond the float64 range of exp / I0, or a field
// so narrow that its variance or precession radius underflows to zero.
func (c *Cell) Check() error {
	if c.VM.Kappa > vonmises.MaxKappa || math.IsInf(c.VM.Norm, 0) {
		return &CellError{Cell: c.Idx, Kind: NumericOverflow, Msg: fmt.Sprintf("phase locking %g: exp(kappa) and I0(kappa) exceed float64 range (max %.6g)", c.VM.Kappa, vonmises.MaxKappa)}
	}
	if c.Width*c.Width == 0 || c.Radius == 0 || math.IsInf(c.WaveNum, 0) || c.WaveNum == 0 {
		return &CellError{Cell: c.Idx, Kind: NumericDegenerate, Msg: fmt.Sprintf("width %g: field variance or precession radius is zero (wavenumber %g)", c.Width, c.WaveNum)}
	}
	return nil
}

// Psi returns the spatiotemporal theta phase of the cell at time t and
// position x under the linear phase model:
// WaveNum * (Center - x) - 2 pi Freq t - theta0.
func (c *Cell) Psi(th *track.ThetaParams, theta0, t, x float64) float64 {
	return c.WaveNum*(c.Center-x) - 2*math.Pi*th.Freq*t - theta0
}

// PhaseField returns the phasic (von Mises) tuning value exp(Kappa * cos(psi))
func (c *Cell) PhaseField(psi float64) float64 {
	return c.VM.Tuning(psi)
}

// PlaceField returns the Gaussian spatial tuning value at position x,
// 1 at the field center.
func (c *Cell) PlaceField(x float64) float64 {
	d := c.Center - x
	return math.Exp(-(d * d) / (2 * c.Width * c.Width))
}

// Amplitude returns the speed-dependent rate scale
// nspikes * |v| / (sqrt(2 pi Width^2) * I0(Kappa)),
// which keeps the expected spike count per pass through the field at
// nspikes regardless of how fast the field is crossed.
func (c *Cell) Amplitude(nspikes, v float64) float64 {
	return nspikes * math.Abs(v) / (math.Sqrt(2*math.Pi*c.Width*c.Width) * c.VM.Norm)
}

// Rate returns the firing rate (intensity) at time t, position x and
// velocity v: Amplitude * PhaseField * PlaceField.
func (c *Cell) Rate(th *track.ThetaParams, theta0, nspikes, t, x, v float64) float64 {
	psi := c.Psi(th, theta0, t, x)
	return c.Amplitude(nspikes, v) * c.PhaseField(psi) * c.PlaceField(x)
}
