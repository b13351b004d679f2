// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// precess runs a population of independently phase-coding place cells at a
// range of running speeds, and reports that the expected and observed number
// of spikes per field traversal does not depend on speed while the phase
// precession slope stays at -WaveNum.  Speeds are split across MPI
// procs when built with -tags mpi and run under mpirun.
package main

import (
	"log"
	"math"
	"os"

	"github.com/ccnlab/phase-precess/precess"
	"github.com/emer/emergent/timer"
	"github.com/emer/empi/empi"
	"github.com/emer/empi/mpi"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/floats"
)

func main() {
	TheSim.New()
	TheSim.MPIInit()
	err := TheSim.Run()
	TheSim.MPIFinalize()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

// Sim holds the params and results of the speed sweep
type Sim struct {
	Params   precess.Params `desc:"base params, speed is replaced for each sweep point"`
	ParamSet string         `desc:"extra ParamSets preset applied on top of Base"`
	NCells   int            `def:"20" desc:"number of place cells, evenly spaced along the track"`
	HalfLen  float64        `def:"60" desc:"half length of track covered at every speed, cm -- sets the number of theta cycles per run"`
	Speeds   []float64      `desc:"running speeds to sweep, cm / s"`
	SweepLog *etable.Table  `view:"no-inline" desc:"one row per speed: population means"`
	Comm     *mpi.Comm      `view:"-" desc:"mpi communicator"`
	UseMPI   bool           `view:"-" desc:"true if running under mpi with more than one proc"`
}

// TheSim is the overall state for this simulation
var TheSim Sim

// New creates new blank elements and initializes defaults
func (ss *Sim) New() {
	ss.Params.Defaults()
	ss.ParamSet = "Wide"
	ss.NCells = 20
	ss.HalfLen = 60
	ss.Speeds = make([]float64, 16)
	floats.Span(ss.Speeds, 5, 80)
	ss.SweepLog = &etable.Table{}
}

// Config applies params and sets up the population and the log
func (ss *Sim) Config() error {
	if err := ss.Params.ApplySet("Base", false); err != nil {
		return err
	}
	if ss.ParamSet != "" && ss.ParamSet != "Base" {
		if err := ss.Params.ApplySet(ss.ParamSet, false); err != nil {
			return err
		}
	}
	ss.Params.NSpikes = 10
	mg := ss.HalfLen - 2.5*ss.Params.Field.Sigma0 // whole fields stay on the track
	ss.Params.Centers = precess.UniformCenters(ss.NCells, -mg, mg)
	ss.Params.PhaseLocking = precess.Fill(ss.NCells, 4)
	ss.ConfigSweepLog(ss.SweepLog)
	return nil
}

// sweep stats per speed, in column order of the log
var sweepStats = []string{"Expected", "Observed", "Slope", "MaxPSpike", "Secs"}

// ConfigSweepLog configures the speed sweep log
func (ss *Sim) ConfigSweepLog(dt *etable.Table) {
	dt.SetMetaData("name", "SweepLog")
	dt.SetMetaData("desc", "Population means per running speed")
	dt.SetMetaData("read-only", "true")

	sch := etable.Schema{
		{"Speed", etensor.FLOAT64, nil, nil},
	}
	for _, st := range sweepStats {
		sch = append(sch, etable.Column{st, etensor.FLOAT64, nil, nil})
	}
	dt.SetFromSchema(sch, len(ss.Speeds))
}

// Run runs this proc's share of the speeds, gathers all results on every
// proc, and prints the sweep log from proc 0.
func (ss *Sim) Run() error {
	if err := ss.Config(); err != nil {
		return err
	}
	ns := len(ss.Speeds)
	nst := len(sweepStats)
	st, ed := 0, ns
	if ss.UseMPI {
		var err error
		st, ed, err = empi.AllocN(ns)
		if err != nil {
			return err
		}
	}
	mine := make([]float64, ns*nst)
	tmr := timer.Time{}
	tmr.Start()
	for si := st; si < ed; si++ {
		if err := ss.RunSpeed(si, mine[si*nst:(si+1)*nst]); err != nil {
			return err
		}
	}
	tmr.Stop()
	mpi.Printf("proc %d: speeds %d-%d in %6.3g secs\n", mpi.WorldRank(), st, ed, tmr.TotalSecs())

	all := mine
	if ss.UseMPI {
		all = make([]float64, len(mine))
		if err := ss.Comm.AllReduceF64(mpi.OpSum, all, mine); err != nil {
			return err
		}
	}
	dt := ss.SweepLog
	for si, spd := range ss.Speeds {
		dt.SetCellFloat("Speed", si, spd)
		for i, stnm := range sweepStats {
			dt.SetCellFloat(stnm, si, all[si*nst+i])
		}
	}
	ss.Report()
	return nil
}

// RunSpeed generates one population run at speed index si and writes its
// stats into vals, in sweepStats order.
func (ss *Sim) RunSpeed(si int, vals []float64) error {
	pp := ss.Params
	pp.Run.V0 = ss.Speeds[si]
	pp.Theta.Cycles = math.Ceil(2 * ss.HalfLen / pp.Run.V0 * pp.Theta.Freq)
	pp.Update()
	pp.Seed = ss.Params.Seed + int64(si)
	res, err := precess.Generate(&pp)
	if err != nil {
		return err
	}
	cl := &etable.Table{}
	precess.ConfigCellLog(cl)
	res.LogCells(cl)
	vals[0] = precess.LogMean(cl, "Expected")
	vals[1] = precess.LogMean(cl, "Observed")
	vals[2] = precess.LogMean(cl, "Slope")
	vals[3] = res.MaxPSpike
	secs := 0.0
	for _, tm := range res.Timers {
		secs += tm.TotalSecs()
	}
	vals[4] = secs
	return nil
}

// Report prints the sweep log on proc 0
func (ss *Sim) Report() {
	dt := ss.SweepLog
	mpi.Printf("%d cells, %g spikes / field, wavenumber %.4g rad/cm\n", ss.NCells, ss.Params.NSpikes, ss.Params.Field.DPhi/(2*ss.Params.Field.R0))
	mpi.Printf("%8s %9s %9s %9s %9s %9s\n", "Speed", "Expected", "Observed", "Slope", "MaxPSpk", "Secs")
	for si := 0; si < dt.Rows; si++ {
		mpi.Printf("%8.3g %9.4g %9.4g %9.4g %9.3g %9.3g\n", dt.CellFloat("Speed", si), dt.CellFloat("Expected", si),
			dt.CellFloat("Observed", si), dt.CellFloat("Slope", si), dt.CellFloat("MaxPSpike", si), dt.CellFloat("Secs", si))
	}
}

// MPIInit initializes MPI; without the mpi build tag this is a single proc
func (ss *Sim) MPIInit() {
	mpi.Init()
	var err error
	ss.Comm, err = mpi.NewComm(nil) // use all procs
	if err != nil {
		log.Println(err)
		ss.UseMPI = false
		return
	}
	ss.UseMPI = mpi.WorldSize() > 1
	if ss.UseMPI {
		mpi.Printf("MPI running on %d procs\n", mpi.WorldSize())
	}
}

// MPIFinalize finalizes MPI
func (ss *Sim) MPIFinalize() {
	mpi.Finalize()
}
