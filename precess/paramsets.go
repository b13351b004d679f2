// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/emer/emergent/params"
	"gonum.org/v1/gonum/floats"
)

// ParamSets are named parameter presets, applied on top of Defaults by
// ApplySet.  Keys are field paths into Params, values are parsed into the
// field type.  Base is the standard condition: 20 cm/s, 6 deg bins, 4 cycles.
var ParamSets = map[string]map[string]string{
	"Base": {
		"Theta.Freq":   "8",
		"Theta.BinDeg": "6",
		"Theta.Cycles": "4",
		"Run.V0":       "20",
		"Run.Accel":    "0",
		"NSpikes":      "2",
	},
	"Accel": { // speeding up through the field
		"Run.V0":       "10",
		"Run.Accel":    "10",
		"Theta.Cycles": "16",
	},
	"Sharp": { // many spikes per pass need finer bins to keep r * dt small
		"Theta.BinDeg":   "2",
		"Theta.Cycles":   "40",
		"NSpikes":        "20",
		"StrictThinning": "true",
		"MaxPSpike":      "0.5",
	},
	"Wide": { // long track: several fields traversed in one run
		"Theta.Cycles": "40",
		"Run.V0":       "30",
		"Field.Sigma0": "12",
		"Field.R0":     "25",
	},
}

// ApplySet applies the named preset from ParamSets to the params, then
// calls Update.  setMsg logs each value as it is set.  All paths are
// applied, and any that fail are returned joined.
func (pp *Params) ApplySet(name string, setMsg bool) error {
	vals, has := ParamSets[name]
	if !has {
		return fmt.Errorf("precess: ParamSet %q not found", name)
	}
	paths := make([]string, 0, len(vals))
	for path := range vals {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	var errs []error
	for _, path := range paths {
		if err := params.SetParam(pp, path, vals[path]); err != nil {
			errs = append(errs, fmt.Errorf("precess: ParamSet %s: %w", name, err))
			continue
		}
		if setMsg {
			log.Printf("ParamSet %s: %s = %s\n", name, path, vals[path])
		}
	}
	pp.Update()
	return errors.Join(errs...)
}

// UniformCenters returns n place field centers evenly spaced from st to ed
// inclusive, cm.
func UniformCenters(n int, st, ed float64) []float64 {
	cs := make([]float64, n)
	switch n {
	case 0:
		return cs
	case 1:
		cs[0] = (st + ed) / 2
		return cs
	}
	return floats.Span(cs, st, ed)
}

// Fill returns n copies of v, e.g., a uniform phase locking for a population
func Fill(n int, v float64) []float64 {
	vs := make([]float64, n)
	for i := range vs {
		vs[i] = v
	}
	return vs
}
