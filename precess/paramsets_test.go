// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplySet(t *testing.T) {
	pp := testParams()
	if err := pp.ApplySet("Base", false); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(testParams(), pp); diff != "" {
		t.Errorf("Base differs from Defaults (-want +got):\n%s", diff)
	}

	if err := pp.ApplySet("Sharp", false); err != nil {
		t.Fatal(err)
	}
	if pp.Theta.BinDeg != 2 || pp.Theta.Cycles != 40 || !pp.StrictThinning || pp.MaxPSpike != 0.5 {
		t.Errorf("Sharp not applied: %+v", pp)
	}
	if pp.Theta.Dt != 2.0/(8*360) {
		t.Errorf("Update not called: Dt = %v", pp.Theta.Dt)
	}
	genOK(t, pp)

	for _, nm := range []string{"Accel", "Wide"} {
		pp := testParams()
		if err := pp.ApplySet(nm, false); err != nil {
			t.Fatal(err)
		}
		genOK(t, pp)
	}

	if err := pp.ApplySet("NoSuchSet", false); err == nil {
		t.Errorf("expected error for unknown set")
	}
}

func TestApplySetBadPath(t *testing.T) {
	ParamSets["BadPath"] = map[string]string{
		"NoSuchField": "1",
		"NSpikes":     "3",
	}
	defer delete(ParamSets, "BadPath")
	pp := testParams()
	if err := pp.ApplySet("BadPath", false); err == nil {
		t.Errorf("expected error for unknown field path")
	}
	if pp.NSpikes != 3 {
		t.Errorf("valid paths should still be applied: NSpikes = %v", pp.NSpikes)
	}
}

func TestUniformCenters(t *testing.T) {
	cs := UniformCenters(5, -20, 20)
	if diff := cmp.Diff([]float64{-20, -10, 0, 10, 20}, cs); diff != "" {
		t.Errorf("centers (-want +got):\n%s", diff)
	}
	if UniformCenters(1, -20, 20)[0] != 0 || len(UniformCenters(0, 0, 1)) != 0 {
		t.Errorf("degenerate counts")
	}
}
