// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/critic/field"
	"github.com/cpmech/critic/particle"
	"github.com/cpmech/critic/tangent"
)

// heightState snapshots everything a reject must restore: the probed
// quantities, both projection matrices, and the position they came
// from. Both the positive and negative pass share one such state.
type heightState struct {
	val     float64
	grad    [3]float64
	hess    [9]float64
	posproj tangent.Mat3
	negproj tangent.Mat3
	pos     la.Vector
}

// Height seeks a ridge (posproj pass) or valley (negproj pass)
// extremum of the height channel with projected Newton steps,
// interleaving the two passes every outer iteration. With no tangents
// selected at all, posproj is the identity and the particle simply
// chases the nearest critical point ("point-chasing" mode).
func Height(pt *particle.Particle, pr field.Probe, ctx *Context) error {

	havePos := ctx.Tang1Use || ctx.Tang2Use
	haveNeg := ctx.NegTang1Use || ctx.NegTang2Use
	haveNada := !havePos && !haveNeg

	val, grad, hess, posproj, negproj, err := probeHeight(pt, pr, ctx)
	if err != nil {
		return err
	}
	if ctx.History != nil {
		ctx.History.Add(0, val, pt.Pos)
	}

	var st heightState
	st.pos = make(la.Vector, len(pt.Pos))
	stInfo := make(la.Vector, len(pt.Info))
	save := func() {
		st.val, st.grad, st.hess = val, grad, hess
		st.posproj, st.negproj = *posproj, *negproj
		copy(st.pos, pt.Pos)
		snapshotInfo(stInfo, pt.Info)
	}
	restore := func() {
		val, grad, hess = st.val, st.grad, st.hess
		pp, nn := st.posproj, st.negproj
		posproj, negproj = &pp, &nn
		copy(pt.Pos, st.pos)
		snapshotInfo(pt.Info, stInfo)
	}
	save()
	hack := 1.0
	newpos := make(la.Vector, len(pt.Pos))

	iter := 1
outer:
	for ; iter <= ctx.IterMax; iter++ {

		if havePos || haveNada {
			if (&tangent.Mat3{D: hess}).Frobenius() == 0 {
				pt.FailCode = particle.HessZeroA
				return nil
			}
			d1, d2, pdir, plen := dnorm(grad, hess, posproj, ctx.ZeroZ)

			var step float64
			if plen == 0 {
				if !ctx.ZeroGmagOkay {
					pt.FailCode = particle.ProjGradZeroA
					return nil
				}
				step = 0
			} else {
				if d2 > 0 {
					step = -d1 / d2
				} else {
					step = -plen
				}
				step = clampStep(step, ctx.StepMax)
			}

			if d2 > 0 && absf(step) < ctx.StepMax*ctx.ConstrEps {
				if !haveNeg {
					break outer
				}
				// concave up and close enough here; let the negative
				// pass take this iteration's move instead.
			} else {
				copy(newpos, pt.Pos)
				newpos[0] += hack * step * pdir[0]
				newpos[1] += hack * step * pdir[1]
				newpos[2] += hack * step * pdir[2]
				if !finite3(newpos) {
					return chk.Err("height solver: non-finite position (pos proj) at iteration %d", iter)
				}
				copy(pt.Pos, newpos)

				valNew, gradNew, hessNew, posprojNew, negprojNew, e := probeHeight(pt, pr, ctx)
				if e != nil {
					return chk.Err("height solver: probe failed (pos proj) at iteration %d: %v", iter, e)
				}
				if ctx.History != nil {
					ctx.History.Add(iter, valNew, pt.Pos)
				}

				if valNew <= val {
					val, grad, hess, posproj, negproj = valNew, gradNew, hessNew, posprojNew, negprojNew
					save()
					hack = 1.0
				} else {
					hack *= ctx.BackStepScale
					restore()
				}
			}
		}

		if haveNeg {
			if (&tangent.Mat3{D: hess}).Frobenius() == 0 {
				pt.FailCode = particle.HessZeroB
				return nil
			}
			d1, d2, pdir, plen := dnorm(grad, hess, negproj, ctx.ZeroZ)

			var step float64
			if plen == 0 {
				if !ctx.ZeroGmagOkay {
					pt.FailCode = particle.ProjGradZeroB
					return nil
				}
				step = 0
			} else {
				if d2 < 0 {
					step = -d1 / d2
				} else {
					step = plen
				}
				step = clampStep(step, ctx.StepMax)
			}

			if d2 < 0 && absf(step) < ctx.StepMax*ctx.ConstrEps {
				break outer
			}

			copy(newpos, pt.Pos)
			newpos[0] += hack * step * pdir[0]
			newpos[1] += hack * step * pdir[1]
			newpos[2] += hack * step * pdir[2]
			if !finite3(newpos) {
				return chk.Err("height solver: non-finite position (neg proj) at iteration %d", iter)
			}
			copy(pt.Pos, newpos)

			valNew, gradNew, hessNew, posprojNew, negprojNew, e := probeHeight(pt, pr, ctx)
			if e != nil {
				return chk.Err("height solver: probe failed (neg proj) at iteration %d: %v", iter, e)
			}
			if ctx.History != nil {
				ctx.History.Add(iter, valNew, pt.Pos)
			}

			if valNew >= val {
				val, grad, hess, posproj, negproj = valNew, gradNew, hessNew, posprojNew, negprojNew
				save()
				hack = 1.0
			} else {
				hack *= ctx.BackStepScale
				restore()
			}
		}
	}

	if iter <= ctx.IterMax {
		pt.FailCode = particle.Ok
	} else {
		pt.FailCode = particle.IterMaxed
	}
	return nil
}

// probeHeight samples the height channel (value, gradient, Hessian) at
// the particle's current position and rebuilds posproj/negproj from
// whichever tangent channels are selected.
func probeHeight(pt *particle.Particle, pr field.Probe, ctx *Context) (val float64, grad [3]float64, hess [9]float64, posproj, negproj *tangent.Mat3, err error) {
	if err = pr.At(pt, pt.Pos); err != nil {
		return
	}
	g := la.Vector(grad[:])
	h := la.Vector(hess[:])
	val = pr.Scalar(pt, particle.InfoHeight, g, h)

	var t1, t2, n1, n2 [3]float64
	tv1, tv2 := la.Vector(t1[:]), la.Vector(t2[:])
	nv1, nv2 := la.Vector(n1[:]), la.Vector(n2[:])
	if ctx.Tang1Use {
		pr.Scalar(pt, particle.InfoTangent1, tv1, nil)
	}
	if ctx.Tang2Use {
		pr.Scalar(pt, particle.InfoTangent2, tv2, nil)
	}
	if ctx.NegTang1Use {
		pr.Scalar(pt, particle.InfoNegTangent1, nv1, nil)
	}
	if ctx.NegTang2Use {
		pr.Scalar(pt, particle.InfoNegTangent2, nv2, nil)
	}
	posproj, negproj = tangent.Project(tv1, tv2, nv1, nv2, ctx.Tang1Use, ctx.Tang2Use, ctx.NegTang1Use, ctx.NegTang2Use)
	return
}

// dnorm projects grad through proj, normalizes the result (masking z
// first when zeroZ is set), and returns the directional derivative and
// curvature of the unprojected field along that direction together
// with the projected-gradient's pre-normalization length.
func dnorm(grad [3]float64, hess [9]float64, proj *tangent.Mat3, zeroZ bool) (d1, d2 float64, pdir la.Vector, plen float64) {
	g := la.Vector(grad[:])
	var pg [3]float64
	pgv := la.Vector(pg[:])
	proj.MulVec(pgv, g)
	if zeroZ {
		pgv[2] = 0
	}
	pdir = make(la.Vector, 3)
	plen = normalize3(pdir, pgv, false)
	if plen == 0 {
		return 0, 0, pdir, 0
	}
	d1 = la.VecDot(g, pdir)
	hm := &tangent.Mat3{D: hess}
	d2 = hm.QuadForm(pdir)
	return d1, d2, pdir, plen
}
