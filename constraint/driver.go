// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constraint dispatches a particle to the solver matching its
// ConstraintSpec.Kind, enforces the overall travel budget, and reports
// classified outcomes back on the particle itself.
package constraint

import (
	"sync/atomic"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/critic/field"
	"github.com/cpmech/critic/particle"
	"github.com/cpmech/critic/solve"
	"github.com/cpmech/critic/tangent"
)

type solverFunc func(pt *particle.Particle, pr field.Probe, ctx *solve.Context) error

// solvers holds all the constraint solvers known to this package,
// keyed by the particle Kind they satisfy.
var solvers = map[particle.Kind]solverFunc{
	particle.Isovalue:        solve.Iso,
	particle.HeightLaplacian: solve.Lapl,
	particle.Height:          solve.Height,
}

// Driver holds the process-wide, read-only configuration a solve
// needs: the field probe and the constraint spec every particle it is
// handed is assumed to share. A Driver may be called concurrently from
// many goroutines, each against a different particle; the only
// mutable state it exposes across calls is the atomic counter below.
type Driver struct {
	Probe field.Probe
	Spec  *particle.ConstraintSpec

	VoxelSizeSpace float64 // travel is measured in multiples of this
	Verbose        bool

	// Iter is the enclosing population's global iteration count, set
	// by the caller before each round of Satisfy calls. zeroGmagOkay
	// (Height only) is derived from it: a zero projected gradient is
	// tolerated only once the population has settled past its first
	// iteration and the constraint manifold is a point feature.
	Iter int

	// ConstraintSatisfy counts every successful Satisfy call, across
	// however many goroutines share this Driver.
	ConstraintSatisfy atomic.Int64
}

// NewDriver wraps a field probe and a constraint spec for dispatch.
// voxelSizeSpace is the unit travel is measured in; the un-adjusted
// step radius each solver receives is cs.StepMax.
func NewDriver(pr field.Probe, cs *particle.ConstraintSpec, voxelSizeSpace float64) *Driver {
	return &Driver{Probe: pr, Spec: cs, VoxelSizeSpace: voxelSizeSpace}
}

// Satisfy moves pt to satisfy d.Spec, in place. travelMax bounds the
// total distance moved from pt's position on entry, in multiples of
// d.VoxelSizeSpace; exceeding it overrides whatever FailCode the
// solver itself produced with particle.Travel. An unrecognized
// spec.Kind is a no-op (logged only when Verbose is set): pt is left
// untouched and reports Ok.
func (d *Driver) Satisfy(pt *particle.Particle, travelMax float64) error {
	solver, ok := solvers[d.Spec.Kind]
	if !ok {
		if d.Verbose {
			io.Pfyel("constraint: no solver registered for kind %v; leaving particle %d untouched\n", d.Spec.Kind, pt.Tag)
		}
		pt.FailCode = particle.Ok
		return nil
	}

	start := make(la.Vector, len(pt.Pos))
	copy(start, pt.Pos)

	ctx := d.contextFor()
	ctx.History = pt.History

	if d.Verbose {
		io.Pf("constraint: satisfying particle %d (kind %v) from %v\n", pt.Tag, d.Spec.Kind, pt.Pos)
	}

	if err := solver(pt, d.Probe, ctx); err != nil {
		return chk.Err("constraint: satisfy particle %d: %v", pt.Tag, err)
	}

	traveled := dist3(start, pt.Pos) / d.VoxelSizeSpace
	if traveled > travelMax {
		pt.FailCode = particle.Travel
	}

	if pt.FailCode == particle.Ok {
		d.ConstraintSatisfy.Add(1)
	}
	if d.Verbose {
		io.Pf("constraint: particle %d finished %v (traveled %g vox) -> %v\n", pt.Tag, d.Spec.Kind, traveled, pt.FailCode)
	}
	return nil
}

// contextFor adjusts the per-kind step radius and iteration budget
// before handing the solver its Context. The Laplacian solver's own
// marching step is already half of whatever radius it receives (see
// solve.Lapl); the driver divides the radius by 4 here and quadruples
// the budget, netting the smaller, more patient search a two-phase
// bracket-then-localize scheme needs.
func (d *Driver) contextFor() *solve.Context {
	dim, err := d.ConstraintDim()
	zeroGmagOkay := err == nil && d.Iter > 1 && dim == 0
	ctx := solve.FromSpec(d.Spec, zeroGmagOkay)
	if d.Spec.Kind == particle.HeightLaplacian {
		ctx.StepMax /= 4
		ctx.IterMax *= 4
	}
	return ctx
}

// TangentOfConstraint returns a symmetric 3x3 projection whose column
// space approximates the tangent space of the manifold pt has (or is
// assumed to have) converged onto. For Height it is I-posproj-negproj;
// for Isovalue/HeightLaplacian it is I-n·nᵀ for n the normalized
// gradient of the relevant channel, or the identity if that gradient
// is zero. pt.Info is assumed already consistent with pt.Pos (the
// probe-consistency invariant every solver maintains), so this does
// not re-probe.
func (d *Driver) TangentOfConstraint(pt *particle.Particle) (*tangent.Mat3, error) {
	switch d.Spec.Kind {
	case particle.Height:
		var t1, t2, n1, n2 [3]float64
		tv1, tv2 := la.Vector(t1[:]), la.Vector(t2[:])
		nv1, nv2 := la.Vector(n1[:]), la.Vector(n2[:])
		if d.Spec.Tang1Use {
			d.Probe.Scalar(pt, particle.InfoTangent1, tv1, nil)
		}
		if d.Spec.Tang2Use {
			d.Probe.Scalar(pt, particle.InfoTangent2, tv2, nil)
		}
		if d.Spec.NegTang1Use {
			d.Probe.Scalar(pt, particle.InfoNegTangent1, nv1, nil)
		}
		if d.Spec.NegTang2Use {
			d.Probe.Scalar(pt, particle.InfoNegTangent2, nv2, nil)
		}
		posproj, negproj := tangent.Project(tv1, tv2, nv1, nv2, d.Spec.Tang1Use, d.Spec.Tang2Use, d.Spec.NegTang1Use, d.Spec.NegTang2Use)
		return tangent.Identity().Sub(posproj).Sub(negproj), nil

	case particle.Isovalue, particle.HeightLaplacian:
		kind := particle.InfoIsovalue
		if d.Spec.Kind == particle.HeightLaplacian {
			kind = particle.InfoHeight
		}
		var g [3]float64
		gv := la.Vector(g[:])
		d.Probe.Scalar(pt, kind, gv, nil)
		length := la.VecNorm(gv)
		if length == 0 {
			return tangent.Identity(), nil
		}
		n := la.Vector{gv[0] / length, gv[1] / length, gv[2] / length}
		outer := tangent.Zero()
		outer.OuterAdd(n)
		return tangent.Identity().Sub(outer), nil
	}
	return nil, chk.Err("constraint: TangentOfConstraint: unknown kind %v", d.Spec.Kind)
}

// ConstraintDim reports the dimension of the manifold d.Spec pins a
// particle to (not its codimension). Isovalue and HeightLaplacian are
// always 2-D surfaces. Height depends on how many tangents are
// selected: none means free point-chasing (dimension 0), one tangent
// leaves a 2-D surface, two leave a 1-D curve, three collapse to a
// point (dimension 0), and all four is a contradiction — codimension
// would be -1 — reported as BadTangents.
func (d *Driver) ConstraintDim() (int, error) {
	switch d.Spec.Kind {
	case particle.Isovalue, particle.HeightLaplacian:
		return 2, nil
	case particle.Height:
		n := 0
		for _, use := range []bool{d.Spec.Tang1Use, d.Spec.Tang2Use, d.Spec.NegTang1Use, d.Spec.NegTang2Use} {
			if use {
				n++
			}
		}
		switch n {
		case 0:
			return 0, nil
		case 1:
			return 2, nil
		case 2:
			return 1, nil
		case 3:
			return 0, nil
		default:
			return 0, chk.Err("constraint: ConstraintDim: %v: all four tangents set", particle.BadTangents)
		}
	}
	return 0, chk.Err("constraint: ConstraintDim: unknown kind %v", d.Spec.Kind)
}

func dist3(a, b la.Vector) float64 {
	var d [3]float64
	for i := 0; i < 3; i++ {
		d[i] = b[i] - a[i]
	}
	return la.VecNorm(la.Vector(d[:]))
}
