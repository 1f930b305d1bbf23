// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"

	"github.com/cpmech/critic/field"
	"github.com/cpmech/critic/particle"
)

// Lapl brackets a sign change of the Laplacian channel by marching
// along the height gradient, then localizes the zero-crossing with
// Illinois false-position. ctx.StepMax/ctx.IterMax are expected to
// already carry the quartered/quadrupled adjustment the driver applies
// for this constraint kind.
func Lapl(pt *particle.Particle, pr field.Probe, ctx *Context) error {

	posOld, posNew, fa, fb, ok, err := laplBracket(pt, pr, ctx)
	if err != nil {
		return err
	}
	if !ok {
		pt.FailCode = particle.IterMaxed
		return nil
	}
	if posOld == nil {
		// exact zero hit during bracketing (fa == 0 before any marching)
		pt.FailCode = particle.Ok
		return nil
	}

	return laplFalsePosition(pt, pr, ctx, posOld, fa, posNew, fb)
}

// laplBracket runs phase A: march along normalize(∇height) by
// sign(L)·stepMax/2 until the Laplacian changes sign. A nil posOld with
// ok=true signals the degenerate "already exactly at zero" exit.
func laplBracket(pt *particle.Particle, pr field.Probe, ctx *Context) (posOld, posNew la.Vector, fa, fb float64, ok bool, err error) {

	if e := pr.At(pt, pt.Pos); e != nil {
		return nil, nil, 0, 0, false, chk.Err("lapl solver: probe failed at iteration 0: %v", e)
	}

	val := pr.Scalar(pt, particle.InfoLaplacian, nil, nil)
	if absf(val) < num.EPS {
		return nil, nil, 0, 0, true, nil
	}

	var hgrad [3]float64
	hg := la.Vector(hgrad[:])
	pr.Scalar(pt, particle.InfoHeight, hg, nil)

	var dir [3]float64
	d := la.Vector(dir[:])
	normalize3(d, hg, ctx.ZeroZ)

	valLast := val
	newpos := make(la.Vector, len(pt.Pos))
	step := ctx.StepMax / 2

	for iter := 1; iter <= ctx.IterMax; iter++ {
		old := make(la.Vector, len(pt.Pos))
		copy(old, pt.Pos)

		sgn := fun.Sign(valLast)
		copy(newpos, pt.Pos)
		newpos[0] += sgn * step * d[0]
		newpos[1] += sgn * step * d[1]
		newpos[2] += sgn * step * d[2]
		if !finite3(newpos) {
			return nil, nil, 0, 0, false, chk.Err("lapl solver: non-finite position bracketing at iteration %d", iter)
		}

		copy(pt.Pos, newpos)
		if e := pr.At(pt, pt.Pos); e != nil {
			return nil, nil, 0, 0, false, chk.Err("lapl solver: probe failed bracketing at iteration %d: %v", iter, e)
		}
		valNew := pr.Scalar(pt, particle.InfoLaplacian, nil, nil)
		if ctx.History != nil {
			ctx.History.Add(iter, valNew, pt.Pos)
		}

		if valNew*valLast < 0 {
			cur := make(la.Vector, len(pt.Pos))
			copy(cur, pt.Pos)
			return old, cur, valLast, valNew, true, nil
		}

		valLast = valNew
		pr.Scalar(pt, particle.InfoHeight, hg, nil)
		normalize3(d, hg, ctx.ZeroZ)
	}
	return nil, nil, 0, 0, false, nil
}

// laplFalsePosition runs phase B between the two bracket endpoints
// found by laplBracket, using Illinois false-position. posOld/posNew
// stay fixed as the original bracket; a and b track the current known
// sub-bracket as fractions of that fixed interval, and fa/fb hold the
// Laplacian at a and b (halved by the Illinois rule on a repeated side).
func laplFalsePosition(pt *particle.Particle, pr field.Probe, ctx *Context, posOld, posNew la.Vector, fa, fb float64) error {

	if absf(fb) < absf(fa) {
		posOld, posNew = posNew, posOld
		fa, fb = fb, fa
	}

	length := dist3(posOld, posNew)
	a, b := 0.0, 1.0
	lastSide := 0 // 0 none, 1 = a-side replaced last, 2 = b-side replaced last
	pos := make(la.Vector, len(pt.Pos))

	for iter := 1; iter <= ctx.IterMax; iter++ {
		s := a + (b-a)*fa/(fa-fb)
		for i := 0; i < 3; i++ {
			pos[i] = (1-s)*posOld[i] + s*posNew[i]
		}
		pos[3] = posOld[3]
		if !finite3(pos) {
			return chk.Err("lapl solver: non-finite position false-positioning at iteration %d", iter)
		}

		copy(pt.Pos, pos)
		if e := pr.At(pt, pt.Pos); e != nil {
			return chk.Err("lapl solver: probe failed false-positioning at iteration %d: %v", iter, e)
		}
		fs := pr.Scalar(pt, particle.InfoLaplacian, nil, nil)
		if ctx.History != nil {
			ctx.History.Add(1000+iter, fs, pt.Pos)
		}

		if absf(fs) < num.EPS {
			pt.FailCode = particle.Ok
			return nil
		}

		if fs*fb > 0 {
			b, fb = s, fs
			if lastSide == 2 {
				fa /= 2
			}
			lastSide = 2
		} else {
			a, fa = s, fs
			if lastSide == 1 {
				fb /= 2
			}
			lastSide = 1
		}

		if (b-a)*length < ctx.StepMax*ctx.ConstrEps {
			pt.FailCode = particle.Ok
			return nil
		}
	}

	pt.FailCode = particle.IterMaxed
	return nil
}

func dist3(a, b la.Vector) float64 {
	var d [3]float64
	for i := 0; i < 3; i++ {
		d[i] = b[i] - a[i]
	}
	return la.VecNorm(la.Vector(d[:]))
}
