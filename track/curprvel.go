// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import "math"

// CurPrvVel tracks a position on the track across time bins: current,
// previous, the displacement between them, and the total path length
// covered since Init, which grows on backward steps as well.
type CurPrvVel struct {
	Cur  float64 `desc:"current position, cm"`
	Prv  float64 `desc:"position at the previous bin, cm"`
	Vel  float64 `desc:"displacement over the last bin: Cur - Prv, cm"`
	Dist float64 `desc:"path length covered since Init, cm"`
}

// Init starts tracking at position cur, with no displacement
func (cv *CurPrvVel) Init(cur float64) {
	cv.Cur = cur
	cv.Prv = cur
	cv.Vel = 0
	cv.Dist = 0
}

// Update moves to position cur, copying Cur to Prv
func (cv *CurPrvVel) Update(cur float64) {
	cv.Prv = cv.Cur
	cv.Cur = cur
	cv.Vel = cv.Cur - cv.Prv
	cv.Dist += math.Abs(cv.Vel)
}

// Speed returns the running speed over the last bin of duration dt, cm/s
func (cv *CurPrvVel) Speed(dt float64) float64 {
	return math.Abs(cv.Vel) / dt
}
