// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"errors"
	"math"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats/scalar"
)

// CountTol is the relative tolerance on expected spike counts: the axis
// clips a small part of the Gaussian field and bins are discrete.
const CountTol = 0.02

func testParams() *Params {
	pp := &Params{}
	pp.Defaults()
	return pp
}

func genOK(t *testing.T, pp *Params) *Result {
	t.Helper()
	res, err := Generate(pp)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestConcreteScenario(t *testing.T) {
	pp := testParams() // v0 = 20, a = 0, dth = 6, kappa = [2], Ncyc = 4, theta0 = 0, Nspikes = 2, xc = [0]
	res := genOK(t, pp)
	if res.NCells() != 1 || res.NTimes() != 241 {
		t.Fatalf("shape: %v", res.Rates.Shapes())
	}
	pk := res.PeakIdx(0)
	if pk != 120 || res.Traj.Nearest(0) != 120 {
		t.Errorf("peak at %d, nearest to center %d, want 120", pk, res.Traj.Nearest(0))
	}
	if res.Axis.Times[pk] != 0 {
		t.Errorf("peak time: %v", res.Axis.Times[pk])
	}
	// peak = A * exp(kappa) at x = 0, psi = 0
	c := &res.Cells[0]
	want := c.Amplitude(2, 20) * math.Exp(2)
	if !scalar.EqualWithinRel(res.RateRow(0)[pk], want, 1e-12) {
		t.Errorf("peak rate: %v, want %v", res.RateRow(0)[pk], want)
	}

	win := 2 * pp.Field.Sigma0 / pp.Run.V0
	for seed := int64(1); seed <= 20; seed++ {
		pp.Seed = seed
		res := genOK(t, pp)
		for _, j := range res.SpikeIdxs(0) {
			if math.Abs(res.Axis.Times[j]-res.Axis.Times[pk]) > win {
				t.Errorf("seed %d: spike at %v s, outside %v s of the peak", seed, res.Axis.Times[j], win)
			}
		}
	}
}

func TestShapeNonNeg(t *testing.T) {
	pp := testParams()
	pp.Theta.Cycles = 10
	pp.Centers = UniformCenters(9, -20, 20)
	pp.PhaseLocking = []float64{0, 0.5, 1, 2, 4, 8, 16, 32, 64}
	res := genOK(t, pp)
	nt := res.Axis.Len()
	if res.Rates.Dim(0) != 9 || res.Rates.Dim(1) != nt {
		t.Errorf("rates shape: %v", res.Rates.Shapes())
	}
	if res.Spikes.Dim(0) != 9 || res.Spikes.Dim(1) != nt || res.Traj.Len() != nt {
		t.Errorf("spikes shape: %v traj: %d", res.Spikes.Shapes(), res.Traj.Len())
	}
	for i, r := range res.Rates.Values {
		if !(r >= 0) || math.IsInf(r, 0) {
			t.Fatalf("rate %d: %v", i, r)
		}
	}
	for ci := range res.Cells {
		if res.Failed(ci) {
			t.Errorf("cell %d: %v", ci, res.CellErrs[ci])
		}
	}
}

func TestZeroPhaseLocking(t *testing.T) {
	// kappa = 0: no phase modulation, rate = A * place field
	pp := testParams()
	pp.PhaseLocking = []float64{0}
	res := genOK(t, pp)
	c := &res.Cells[0]
	for j, r := range res.RateRow(0) {
		want := c.Amplitude(pp.NSpikes, res.Traj.Vel[j]) * c.PlaceField(res.Traj.Pos[j])
		if !scalar.EqualWithinRel(r, want, 1e-12) {
			t.Fatalf("rate at %d: %v, want %v", j, r, want)
		}
	}
}

func TestDeterminism(t *testing.T) {
	pp := testParams()
	pp.Theta.Cycles = 40
	pp.NSpikes = 10
	pp.Centers = UniformCenters(16, -40, 40)
	pp.PhaseLocking = Fill(16, 4)
	pp.NThreads = 1
	r1 := genOK(t, pp)
	pp.NThreads = 4
	r2 := genOK(t, pp)
	pp.NThreads = 0
	r3 := genOK(t, pp)
	for i, r := range r1.Rates.Values {
		if r2.Rates.Values[i] != r || r3.Rates.Values[i] != r {
			t.Fatalf("rates differ at %d: %v %v %v", i, r, r2.Rates.Values[i], r3.Rates.Values[i])
		}
	}
	if !sameSpikes(r1.Spikes, r2.Spikes) || !sameSpikes(r1.Spikes, r3.Spikes) {
		t.Errorf("spikes differ across thread counts for the same seed")
	}
	if floatSum(r1.SpikeCounts()) == 0 {
		t.Fatalf("no spikes")
	}

	pp.Seed = 2
	r4 := genOK(t, pp)
	if sameSpikes(r1.Spikes, r4.Spikes) {
		t.Errorf("different seeds gave identical spikes")
	}
}

func sameSpikes(a, b *etensor.Bits) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.Value1D(i) != b.Value1D(i) {
			return false
		}
	}
	return true
}

func floatSum(cnts []int) float64 {
	sum := 0.0
	for _, c := range cnts {
		sum += float64(c)
	}
	return sum
}

func TestSpeedInvariance(t *testing.T) {
	runs := []struct {
		v0, a float64
	}{
		{10, 0},
		{20, 0},
		{40, 0},
		{-20, 0},
		{30, 10},
	}
	for _, rn := range runs {
		pp := testParams()
		pp.Theta.Cycles = 40
		pp.Run.V0 = rn.v0
		pp.Run.Accel = rn.a
		res := genOK(t, pp)
		exp := res.ExpectedCounts()[0]
		if !scalar.EqualWithinRel(exp, pp.NSpikes, CountTol) {
			t.Errorf("v0 = %v, a = %v: expected count %v, want %v", rn.v0, rn.a, exp, pp.NSpikes)
		}
	}
}

func TestTimeSymmetry(t *testing.T) {
	pp := testParams()
	pp.Theta.Cycles = 10
	pp.PhaseLocking = []float64{3}
	res := genOK(t, pp)
	row := res.RateRow(0)
	n := len(row) - 1
	for j := range row {
		if !scalar.EqualWithinRel(row[j], row[n-j], 1e-12) {
			t.Fatalf("r(t) != r(-t) at %d: %v vs %v", j, row[j], row[n-j])
		}
	}
}

func TestBinBound(t *testing.T) {
	for _, v0 := range []float64{10, 50, 100} {
		for _, kp := range []float64{0, 2, 10, 20} {
			for _, dth := range []float64{1, 6, 10} {
				pp := testParams()
				pp.Run.V0 = v0
				pp.Theta.BinDeg = dth
				pp.NSpikes = 5
				pp.PhaseLocking = []float64{kp}
				pp.StrictThinning = true
				res := genOK(t, pp)
				if res.MaxPSpike >= 1 {
					t.Errorf("v0 = %v kappa = %v dth = %v: max r*dt = %v", v0, kp, dth, res.MaxPSpike)
				}
			}
		}
	}
}

func TestStrictThinning(t *testing.T) {
	pp := testParams()
	pp.Run.V0 = 100
	pp.NSpikes = 5
	pp.PhaseLocking = []float64{20}
	pp.Theta.BinDeg = 10
	pp.MaxPSpike = 0.1

	res, err := Generate(pp)
	if err != nil {
		t.Fatalf("non-strict: %v", err)
	}
	if res.MaxPSpike < 0.8 {
		t.Errorf("non-strict: max r*dt %v", res.MaxPSpike)
	}

	pp.StrictThinning = true
	res, err = Generate(pp)
	var pe *ParamError
	if res != nil || !errors.Is(err, ErrInvalidParameter) || !errors.As(err, &pe) || pe.Param != "MaxPSpike" {
		t.Errorf("strict: res %v err %v", res, err)
	}
}

func TestInvalidParams(t *testing.T) {
	tests := []struct {
		param string
		set   func(pp *Params)
	}{
		{"Theta.BinDeg", func(pp *Params) { pp.Theta.BinDeg = 0 }},
		{"Theta.BinDeg", func(pp *Params) { pp.Theta.BinDeg = -6 }},
		{"Theta.Cycles", func(pp *Params) { pp.Theta.Cycles = 0 }},
		{"Theta.Cycles", func(pp *Params) { pp.Theta.Cycles = math.Inf(1) }},
		{"Theta.Cycles", func(pp *Params) { pp.Theta.Cycles = 0.001 }},
		{"Theta.Freq", func(pp *Params) { pp.Theta.Freq = 0 }},
		{"Run.V0", func(pp *Params) { pp.Run.V0 = math.NaN() }},
		{"Run.Accel", func(pp *Params) { pp.Run.Accel = math.Inf(-1) }},
		{"Theta0", func(pp *Params) { pp.Theta0 = math.NaN() }},
		{"NSpikes", func(pp *Params) { pp.NSpikes = 0 }},
		{"Centers", func(pp *Params) { pp.Centers = nil; pp.PhaseLocking = nil }},
		{"Centers[1]", func(pp *Params) { pp.Centers = []float64{0, math.Inf(1)}; pp.PhaseLocking = []float64{1, 1} }},
		{"PhaseLocking", func(pp *Params) { pp.Centers = []float64{0, 10} }},
		{"PhaseLocking[0]", func(pp *Params) { pp.PhaseLocking = []float64{-1} }},
		{"PhaseLocking[0]", func(pp *Params) { pp.PhaseLocking = []float64{math.NaN()} }},
		{"Widths", func(pp *Params) { pp.Widths = []float64{9, 9} }},
		{"Widths[0]", func(pp *Params) { pp.Widths = []float64{0} }},
		{"Field.Sigma0", func(pp *Params) { pp.Field.Sigma0 = -1 }},
		{"NThreads", func(pp *Params) { pp.NThreads = -2 }},
		{"MaxPSpike", func(pp *Params) { pp.MaxPSpike = 0 }},
	}
	for _, tt := range tests {
		pp := testParams()
		tt.set(pp)
		res, err := Generate(pp)
		if res != nil {
			t.Errorf("%s: expected nil result", tt.param)
		}
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s: expected invalid parameter, got %v", tt.param, err)
			continue
		}
		if !hasParamErr(err, tt.param) {
			t.Errorf("%s: not named in %v", tt.param, err)
		}
	}
}

// hasParamErr returns true if any ParamError joined in err names param
func hasParamErr(err error, param string) bool {
	if pe, ok := err.(*ParamError); ok {
		return pe.Param == param
	}
	if je, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range je.Unwrap() {
			if hasParamErr(e, param) {
				return true
			}
		}
	}
	return false
}

func TestAllParamErrors(t *testing.T) {
	pp := testParams()
	pp.Theta.BinDeg = 0
	pp.NSpikes = -1
	pp.PhaseLocking = []float64{-1}
	err := pp.Validate()
	for _, nm := range []string{"Theta.BinDeg", "NSpikes", "PhaseLocking[0]"} {
		if !hasParamErr(err, nm) {
			t.Errorf("missing %s in %v", nm, err)
		}
	}
}

func TestCellOverflow(t *testing.T) {
	pp := testParams()
	pp.Centers = []float64{0, 5}
	pp.PhaseLocking = []float64{2, 1000}
	res, err := Generate(pp)
	if res == nil {
		t.Fatalf("expected partial result: %v", err)
	}
	if !errors.Is(err, ErrNumericOverflow) || errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected numeric overflow: %v", err)
	}
	var ce *CellError
	if !errors.As(err, &ce) || ce.Cell != 1 || ce.Kind != NumericOverflow {
		t.Errorf("cell error: %+v", ce)
	}
	if res.Failed(0) || !res.Failed(1) {
		t.Errorf("failed cells: %v", res.CellErrs)
	}
	for j, r := range res.RateRow(1) {
		if r != 0 {
			t.Fatalf("failed cell rate at %d: %v", j, r)
		}
	}
	if len(res.SpikeIdxs(1)) != 0 {
		t.Errorf("failed cell spiked")
	}
	if allZero(res.RateRow(0)) {
		t.Errorf("good cell has no rate")
	}
}

func allZero(row []float64) bool {
	for _, r := range row {
		if r != 0 {
			return false
		}
	}
	return true
}

func TestAmplitudeOverflow(t *testing.T) {
	// amplitude overflows to +Inf while the place field underflows to 0:
	// Inf * 0 is NaN but the cause is overflow
	pp := testParams()
	pp.NSpikes = 1e308
	pp.Centers = []float64{1e4}
	res, err := Generate(pp)
	if res == nil {
		t.Fatalf("expected partial result: %v", err)
	}
	var ce *CellError
	if !errors.As(err, &ce) || ce.Kind != NumericOverflow || !errors.Is(err, ErrNumericOverflow) {
		t.Errorf("expected numeric overflow, got %v", err)
	}
	if !allZero(res.RateRow(0)) {
		t.Errorf("overflowed cell has rates")
	}
}

func TestCellDegenerate(t *testing.T) {
	pp := testParams()
	pp.Centers = []float64{0, 0}
	pp.PhaseLocking = []float64{2, 2}
	pp.Widths = []float64{9, 1e-200}
	res, err := Generate(pp)
	if res == nil {
		t.Fatalf("expected partial result: %v", err)
	}
	if !errors.Is(err, ErrNumericDegenerate) {
		t.Errorf("expected numeric degenerate: %v", err)
	}
	if res.Failed(0) || !res.Failed(1) {
		t.Errorf("failed cells: %v", res.CellErrs)
	}
	if !allZero(res.RateRow(1)) {
		t.Errorf("degenerate cell has rates")
	}
}

func TestHeterogeneousWidths(t *testing.T) {
	pp := testParams()
	pp.Theta.Cycles = 40
	pp.Centers = []float64{-20, 20}
	pp.PhaseLocking = []float64{2, 2}
	pp.Widths = []float64{6, 12}
	res := genOK(t, pp)
	for ci, c := range res.Cells {
		if c.Width != pp.Widths[ci] {
			t.Errorf("cell %d width %v", ci, c.Width)
		}
		if !scalar.EqualWithinRel(c.Radius, pp.Field.R0*c.Width/pp.Field.Sigma0, 1e-12) {
			t.Errorf("cell %d radius %v", ci, c.Radius)
		}
		if !scalar.EqualWithinRel(c.WaveNum*2*c.Radius, 2*math.Pi, 1e-12) {
			t.Errorf("cell %d wavenumber %v", ci, c.WaveNum)
		}
	}
	// count invariance holds for any width
	for ci, exp := range res.ExpectedCounts() {
		if !scalar.EqualWithinRel(exp, pp.NSpikes, CountTol) {
			t.Errorf("cell %d expected count %v", ci, exp)
		}
	}
}

func TestGenerateIndependentSpikes(t *testing.T) {
	spikes, r, err := GenerateIndependentSpikes(20, 0, 6, []float64{2}, 4, 0, 2, []float64{0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	res := genOK(t, testParams())
	if !sameSpikes(spikes, res.Spikes) {
		t.Errorf("spikes differ from Generate")
	}
	for i, v := range r.Values {
		if v != res.Rates.Values[i] {
			t.Fatalf("rate %d: %v vs %v", i, v, res.Rates.Values[i])
		}
	}

	spikes, r, err = GenerateIndependentSpikes(20, 0, -6, []float64{2}, 4, 0, 2, []float64{0}, 1)
	if spikes != nil || r != nil || !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("invalid dth: %v", err)
	}
}

func TestSample(t *testing.T) {
	dt := 0.001
	rates := NewCellTimeTensor(3, 100)
	for j := 0; j < 100; j++ {
		rates.Set([]int{1, j}, 2/dt) // r*dt = 2: always spikes
		rates.Set([]int{2, j}, 0.5/dt)
	}
	spikes := Sample(rates, dt, 5, 2)
	nspk := 0
	for j := 0; j < 100; j++ {
		if spikes.Value([]int{0, j}) {
			t.Errorf("zero rate spiked at %d", j)
		}
		if !spikes.Value([]int{1, j}) {
			t.Errorf("saturated rate did not spike at %d", j)
		}
		if spikes.Value([]int{2, j}) {
			nspk++
		}
	}
	if nspk < 25 || nspk > 75 {
		t.Errorf("p = 0.5 spiked %d / 100", nspk)
	}
}

func TestCellSeeds(t *testing.T) {
	s1 := CellSeeds(3, 10)
	s2 := CellSeeds(3, 20)
	if diff := cmp.Diff(s1, s2[:10]); diff != "" {
		t.Errorf("seeds depend on population size (-10 +20):\n%s", diff)
	}
	if s1[0] == CellSeeds(4, 1)[0] {
		t.Errorf("master seed ignored")
	}
}

func TestNThreads(t *testing.T) {
	if NThreads(4, 2) != 2 || NThreads(1, 10) != 1 || NThreads(0, 0) != 1 || NThreads(3, 10) != 3 {
		t.Errorf("NThreads")
	}
	seen := make([]int, 11)
	ThrCellFun(11, 3, func(ci int) { seen[ci]++ })
	for ci, n := range seen {
		if n != 1 {
			t.Errorf("cell %d visited %d times", ci, n)
		}
	}
}

func TestTimers(t *testing.T) {
	res := genOK(t, testParams())
	for _, st := range []string{"Axis", "Trajectory", "Rates", "Sample"} {
		tm, has := res.Timers[st]
		if !has {
			t.Errorf("timer %s missing", st)
			continue
		}
		if tm.N != 1 {
			t.Errorf("timer %s: %d start / stops, want 1", st, tm.N)
		}
	}
}

func TestErrKinds(t *testing.T) {
	if NumericOverflow.String() != "NumericOverflow" || NumericDegenerate.Sentinel() != ErrNumericDegenerate {
		t.Errorf("ErrKinds: %v", NumericOverflow)
	}
	b, err := NumericDegenerate.MarshalJSON()
	if err != nil || string(b) != `"NumericDegenerate"` {
		t.Errorf("MarshalJSON: %s %v", b, err)
	}
	var ek ErrKinds
	if err := ek.UnmarshalJSON(b); err != nil || ek != NumericDegenerate {
		t.Errorf("UnmarshalJSON: %v %v", ek, err)
	}
}
