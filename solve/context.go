// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve implements the three constraint-family solvers
// (Iso, Lapl, Height) that share a common projected-Newton-with-
// backtracking scaffold but differ in their convergence predicates,
// step formulas, and dimensional projections.
package solve

import "github.com/cpmech/critic/particle"

// Context carries the already-resolved iteration parameters for one
// solver call. The driver builds a fresh Context per dispatch, so
// Lapl's quartered step radius and quadrupled iteration budget (see
// Lapl) are just a different Context value, never a branch inside a
// solver.
type Context struct {
	StepMax       float64
	IterMax       int
	ConstrEps     float64
	BackStepScale float64
	ZeroZ         bool
	ZeroGmagOkay  bool // Height only: tolerate a zero projected gradient on point features

	// Height only: which tangent channels gate posproj/negproj.
	Tang1Use, Tang2Use, NegTang1Use, NegTang2Use bool

	History *particle.History
}

// FromSpec builds the Context a plain (non-Lapl) solver call uses,
// straight from the ConstraintSpec.
func FromSpec(cs *particle.ConstraintSpec, zeroGmagOkay bool) *Context {
	return &Context{
		StepMax:       cs.StepMax,
		IterMax:       cs.IterMax,
		ConstrEps:     cs.ConstrEps,
		BackStepScale: cs.BackStepScale,
		ZeroZ:         cs.ZeroZ,
		ZeroGmagOkay:  zeroGmagOkay,
		Tang1Use:      cs.Tang1Use,
		Tang2Use:      cs.Tang2Use,
		NegTang1Use:   cs.NegTang1Use,
		NegTang2Use:   cs.NegTang2Use,
	}
}

func clampStep(step, stepMax float64) float64 {
	if step > stepMax {
		return stepMax
	}
	if step < -stepMax {
		return -stepMax
	}
	return step
}
