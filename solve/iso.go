// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/critic/field"
	"github.com/cpmech/critic/particle"
)

// Iso seeks a position where the isovalue channel equals zero, using
// 1-D Newton along the normalized gradient with back-tracking.
func Iso(pt *particle.Particle, pr field.Probe, ctx *Context) error {

	if err := pr.At(pt, pt.Pos); err != nil {
		return chk.Err("iso solver: probe failed at iteration 0: %v", err)
	}

	var grad, dir [3]float64
	g := la.Vector(grad[:])

	val := pr.Scalar(pt, particle.InfoIsovalue, g, nil)
	aval := absf(val)

	snapPos := make(la.Vector, len(pt.Pos))
	snapInfo := make(la.Vector, len(pt.Info))
	copy(snapPos, pt.Pos)
	snapshotInfo(snapInfo, pt.Info)

	hack := 1.0
	newpos := make(la.Vector, len(pt.Pos))

	for iter := 1; iter <= ctx.IterMax; iter++ {

		d := la.Vector(dir[:])
		length := normalize3(d, g, ctx.ZeroZ)
		if length == 0 {
			hack *= ctx.BackStepScale
			copy(pt.Pos, snapPos)
			snapshotInfo(pt.Info, snapInfo)
			continue
		}

		step := clampStep(-val/length, ctx.StepMax)

		copy(newpos, pt.Pos)
		newpos[0] += hack * step * d[0]
		newpos[1] += hack * step * d[1]
		newpos[2] += hack * step * d[2]
		if !finite3(newpos) {
			return chk.Err("iso solver: non-finite position at iteration %d", iter)
		}

		copy(pt.Pos, newpos)
		if err := pr.At(pt, pt.Pos); err != nil {
			return chk.Err("iso solver: probe failed at iteration %d: %v", iter, err)
		}
		valNew := pr.Scalar(pt, particle.InfoIsovalue, g, nil)
		avalNew := absf(valNew)

		if ctx.History != nil {
			ctx.History.Add(iter, valNew, pt.Pos)
		}

		if avalNew <= aval {
			val, aval = valNew, avalNew
			if absf(step) < ctx.StepMax*ctx.ConstrEps {
				pt.FailCode = particle.Ok
				return nil
			}
			copy(snapPos, pt.Pos)
			snapshotInfo(snapInfo, pt.Info)
			hack = 1.0
			continue
		}

		hack *= ctx.BackStepScale
		copy(pt.Pos, snapPos)
		snapshotInfo(pt.Info, snapInfo)
	}

	pt.FailCode = particle.IterMaxed
	return nil
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
