// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
)

// CellSeeds returns one random seed per cell, drawn in cell order from a
// source seeded with seed, so that each cell's draws are independent of how
// cells are split across threads.
func CellSeeds(seed int64, ncells int) []int64 {
	rnd := erand.NewSysRand(seed)
	seeds := make([]int64, ncells)
	for i := range seeds {
		seeds[i] = rnd.Int63(-1)
	}
	return seeds
}

// Sample draws one realization of the point process from the intensity
// surface by thinning: bin [cell, time] spikes iff rate * dt > u, with u
// uniform in [0, 1) and drawn independently for every bin.  This
// approximates a Poisson process as long as rate * dt stays well below 1.
func Sample(rates *etensor.Float64, dt float64, seed int64, nthr int) *etensor.Bits {
	nc := rates.Dim(0)
	nt := rates.Dim(1)
	spikes := etensor.NewBits([]int{nc, nt}, nil, []string{"Cell", "Time"})
	seeds := CellSeeds(seed, nc)
	// bits are packed across cell rows, so threads collect indexes
	// and the tensor is written afterward
	spkIdxs := make([][]int, nc)
	ThrCellFun(nc, nthr, func(ci int) {
		rnd := erand.NewSysRand(seeds[ci])
		row := rates.Values[ci*nt : (ci+1)*nt]
		for j, r := range row {
			if r*dt > rnd.Float64(-1) {
				spkIdxs[ci] = append(spkIdxs[ci], j)
			}
		}
	})
	for ci, idxs := range spkIdxs {
		for _, j := range idxs {
			spikes.Set([]int{ci, j}, true)
		}
	}
	return spikes
}
